package storage

import "testing"

func TestSettingsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetSetting("volume", 0.8); err != nil {
		t.Fatalf("SetSetting() failed: %v", err)
	}
	if err := store.SetSetting("player_name", "spike"); err != nil {
		t.Fatalf("SetSetting() failed: %v", err)
	}

	if got := store.GetSetting("volume", 0.0); got != 0.8 {
		t.Errorf("volume = %v, want 0.8", got)
	}
	if got := store.GetSetting("player_name", ""); got != "spike" {
		t.Errorf("player_name = %v, want spike", got)
	}
}

func TestSettingsDefaultForMissingKey(t *testing.T) {
	store := openTestStore(t)

	if got := store.GetSetting("absent", "fallback"); got != "fallback" {
		t.Errorf("GetSetting for absent key = %v, want fallback", got)
	}
	if store.HasSetting("absent") {
		t.Error("HasSetting reported an absent key")
	}
}

func TestSettingsOverwrite(t *testing.T) {
	store := openTestStore(t)

	store.SetSetting("difficulty", "easy")
	store.SetSetting("difficulty", "hard")

	if got := store.GetSetting("difficulty", ""); got != "hard" {
		t.Errorf("difficulty = %v, want hard", got)
	}
}

func TestSettingsDelete(t *testing.T) {
	store := openTestStore(t)

	store.SetSetting("temp", true)
	if err := store.DeleteSetting("temp"); err != nil {
		t.Fatalf("DeleteSetting() failed: %v", err)
	}
	if store.HasSetting("temp") {
		t.Error("deleted key still present")
	}

	// Deleting an absent key is fine
	if err := store.DeleteSetting("never_existed"); err != nil {
		t.Errorf("DeleteSetting() on absent key failed: %v", err)
	}
}

func TestSettingsClearScopedToPrefix(t *testing.T) {
	store := openTestStore(t)

	store.SetSetting("a", 1)
	store.SetSetting("b", 2)

	// A foreign row in the same table must survive Clear.
	if _, err := store.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?)",
		"other_app_key", `"keep"`,
	); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearSettings(); err != nil {
		t.Fatalf("ClearSettings() failed: %v", err)
	}

	if store.HasSetting("a") || store.HasSetting("b") {
		t.Error("settings survived ClearSettings")
	}

	var raw string
	if err := store.db.QueryRow(
		"SELECT value FROM settings WHERE key = ?", "other_app_key",
	).Scan(&raw); err != nil {
		t.Error("foreign row was removed by ClearSettings")
	}
}

func TestSettingsComplexValue(t *testing.T) {
	store := openTestStore(t)

	store.SetSetting("keybinds", map[string]any{"jump": "space", "dash": "x"})

	got, ok := store.GetSetting("keybinds", nil).(map[string]any)
	if !ok {
		t.Fatal("stored map did not decode as a map")
	}
	if got["jump"] != "space" || got["dash"] != "x" {
		t.Errorf("keybinds = %v", got)
	}
}

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// settingsPrefix namespaces every key so unrelated rows sharing the table
// are never touched by Clear.
const settingsPrefix = "spikepulse_"

// GetSetting returns the stored value for key, or def if the key is absent
// or its stored value cannot be decoded.
func (s *Store) GetSetting(key string, def any) any {
	var raw string
	err := s.db.QueryRow(
		"SELECT value FROM settings WHERE key = ?",
		settingsPrefix+key,
	).Scan(&raw)
	if err != nil {
		return def
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return def
	}
	return value
}

// SetSetting stores a JSON-encodable value under key.
func (s *Store) SetSetting(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: cannot encode setting %s: %w", key, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		settingsPrefix+key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// HasSetting reports whether a value is stored under key.
func (s *Store) HasSetting(key string) bool {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM settings WHERE key = ?",
		settingsPrefix+key,
	).Scan(&one)
	return err != sql.ErrNoRows && err == nil
}

// DeleteSetting removes the value stored under key. Removing an absent key
// is not an error.
func (s *Store) DeleteSetting(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", settingsPrefix+key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete setting %s: %w", key, err)
	}
	return nil
}

// ClearSettings removes every stored setting. Rows outside the settings
// namespace are left alone.
func (s *Store) ClearSettings() error {
	_, err := s.db.Exec(
		"DELETE FROM settings WHERE key LIKE ?",
		settingsPrefix+"%",
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear settings: %w", err)
	}
	return nil
}

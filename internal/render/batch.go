package render

// Batch groups visible objects sharing a style signature so the draw loop
// sets cell style once per group instead of once per object.
type Batch struct {
	Style   Style
	Objects []*Object
}

// BuildBatches groups objects into style-homogeneous batches, preserving
// first-seen style order and the relative object order within each batch.
func BuildBatches(objects []*Object) []Batch {
	var batches []Batch
	index := make(map[Style]int, 4)

	for _, obj := range objects {
		style := obj.Style()
		i, ok := index[style]
		if !ok {
			i = len(batches)
			index[style] = i
			batches = append(batches, Batch{Style: style})
		}
		batches[i].Objects = append(batches[i].Objects, obj)
	}
	return batches
}

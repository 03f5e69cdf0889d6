package render

// Pair is a persisting element before and after an update
type Pair[T any] struct {
	Prev T
	Next T
}

// Join is the result of a keyed reconciliation. Entering and Persisting
// follow the order of the new collection, Exiting the order of the old one.
type Join[T any] struct {
	Entering   []T
	Persisting []Pair[T]
	Exiting    []T
}

// Reconcile matches prev and next by key. Later duplicates of a key in
// either collection are ignored.
func Reconcile[T any](prev, next []T, key func(T) string) Join[T] {
	old := make(map[string]T, len(prev))
	order := make([]string, 0, len(prev))
	for _, item := range prev {
		k := key(item)
		if _, dup := old[k]; dup {
			continue
		}
		old[k] = item
		order = append(order, k)
	}

	var j Join[T]
	kept := make(map[string]bool, len(next))
	for _, item := range next {
		k := key(item)
		if kept[k] {
			continue
		}
		kept[k] = true
		if p, ok := old[k]; ok {
			j.Persisting = append(j.Persisting, Pair[T]{Prev: p, Next: item})
		} else {
			j.Entering = append(j.Entering, item)
		}
	}
	for _, k := range order {
		if !kept[k] {
			j.Exiting = append(j.Exiting, old[k])
		}
	}
	return j
}

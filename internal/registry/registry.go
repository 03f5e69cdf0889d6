package registry

import (
	"fmt"
	"sort"
)

// StatType describes one stat category served by the query service
type StatType struct {
	Key         string // "receiving", "rushing", "passing"
	DisplayName string // "Receiving"
	Table       string // backing table, e.g. "receiving_stats"
	DefaultStat string // column used when a request omits stat
}

// Registry manages available stat categories
type Registry struct {
	types map[string]StatType
}

// New creates a registry with the three football stat categories
func New() *Registry {
	r := &Registry{
		types: make(map[string]StatType),
	}

	r.Register(StatType{Key: "receiving", DisplayName: "Receiving", Table: "receiving_stats", DefaultStat: "yards"})
	r.Register(StatType{Key: "rushing", DisplayName: "Rushing", Table: "rushing_stats", DefaultStat: "yards"})
	r.Register(StatType{Key: "passing", DisplayName: "Passing", Table: "passing_stats", DefaultStat: "yards"})

	return r
}

// Register adds a stat category to the registry
func (r *Registry) Register(st StatType) {
	r.types[st.Key] = st
}

// Get retrieves a stat category by key
func (r *Registry) Get(key string) (StatType, error) {
	st, ok := r.types[key]
	if !ok {
		return StatType{}, fmt.Errorf("stat type not found: %s", key)
	}
	return st, nil
}

// Keys returns all registered stat type keys in sorted order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.types))
	for key := range r.types {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Tables returns every backing table name
func (r *Registry) Tables() []string {
	tables := make([]string, 0, len(r.types))
	for _, key := range r.Keys() {
		tables = append(tables, r.types[key].Table)
	}
	return tables
}

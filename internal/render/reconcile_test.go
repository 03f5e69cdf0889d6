package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	key string
	v   int
}

func TestReconcile(t *testing.T) {
	key := func(i item) string { return i.key }
	prev := []item{{"a", 1}, {"b", 2}, {"c", 3}}
	next := []item{{"d", 4}, {"b", 20}, {"a", 10}}

	j := Reconcile(prev, next, key)

	assert.Equal(t, []item{{"d", 4}}, j.Entering)
	assert.Equal(t, []Pair[item]{
		{Prev: item{"b", 2}, Next: item{"b", 20}},
		{Prev: item{"a", 1}, Next: item{"a", 10}},
	}, j.Persisting)
	assert.Equal(t, []item{{"c", 3}}, j.Exiting)
}

func TestReconcile_EmptySides(t *testing.T) {
	key := func(s string) string { return s }

	j := Reconcile(nil, []string{"a", "a", "b"}, key)
	assert.Equal(t, []string{"a", "b"}, j.Entering)
	assert.Empty(t, j.Exiting)

	j = Reconcile([]string{"a", "b"}, nil, key)
	assert.Empty(t, j.Entering)
	assert.Empty(t, j.Persisting)
	assert.Equal(t, []string{"a", "b"}, j.Exiting)
}

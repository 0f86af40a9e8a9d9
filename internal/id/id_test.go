package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := New()
		require.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestNewIsSortable(t *testing.T) {
	a := New()
	b := New()
	assert.Less(t, a, b)
}

func TestNewAtCarriesTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	s := NewAt(at)

	got, ok := Time(s)
	require.True(t, ok)
	assert.True(t, at.Equal(got), "got %v", got)

	_, ok = Time("not-an-id")
	assert.False(t, ok)
}

package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyName    = NewKey[string]("project_name")
	keyWorkers = NewKey[int]("workers")
)

func TestStore_TypedAccess(t *testing.T) {
	s := NewStore()

	_, ok := Get(s, keyName)
	assert.False(t, ok)

	Set(s, keyName, "Example Mod")
	v, ok := Get(s, keyName)
	require.True(t, ok)
	assert.Equal(t, "Example Mod", v)

	// Same name, other type.
	_, ok = Get(s, NewKey[int]("project_name"))
	assert.False(t, ok)

	assert.Equal(t, 4, GetOr(s, keyWorkers, 4))
}

func TestStore_Require(t *testing.T) {
	s := NewStore()

	_, err := Require(s, keyWorkers)
	assert.True(t, errors.Is(err, ErrMissingContext))

	s.SetValue("workers", "four")
	_, err = Require(s, keyWorkers)
	assert.ErrorIs(t, err, ErrMissingContext)
	assert.Contains(t, err.Error(), "workers")

	Set(s, keyWorkers, 8)
	n, err := Require(s, keyWorkers)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestStore_InsertionOrder(t *testing.T) {
	s := NewStore()
	s.SetValue("c", 1)
	s.SetValue("a", 2)
	s.SetValue("b", 3)
	s.SetValue("a", 4) // overwrite keeps position

	assert.Equal(t, []string{"c", "a", "b"}, s.Keys())

	s.Delete("a")
	assert.Equal(t, []string{"c", "b"}, s.Keys())
	assert.False(t, s.Contains("a"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_CloneIsIndependent(t *testing.T) {
	s := NewStoreFrom(map[string]any{"b": 1, "a": 2})
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	c := s.Clone()
	c.SetValue("a", 99)
	c.SetValue("c", 3)

	v, _ := s.Value("a")
	assert.Equal(t, 2, v)
	assert.False(t, s.Contains("c"))

	snap := s.Snapshot()
	snap["a"] = 100
	v, _ = s.Value("a")
	assert.Equal(t, 2, v)
}

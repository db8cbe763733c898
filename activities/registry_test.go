package activities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryStoreOverwritesAndReset(t *testing.T) {
	reg := NewRegistry()
	reg.Store("b", &staticActivity{id: "b"})
	reg.Store("a", &staticActivity{id: "a"})
	reg.Store("a", &staticActivity{id: "a2"})
	assert.Equal(t, []string{"a", "b"}, reg.IDs())
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "a2", got.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	reg.Reset()
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.IDs())
}

package seeder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Cache_Put_And_Get(t *testing.T) {
	req := require.New(t)
	cache := NewCache[string]()

	cache.Put("a", "first")
	cache.Put("b", "second")
	cache.Put("a", "refreshed")

	req.Equal(2, cache.Len())
	req.Equal([]string{"a", "b"}, cache.IDs())

	item, ok := cache.Get("a")
	req.True(ok)
	req.Equal("refreshed", item)
}

func Test_Cache_RandomID_Empty(t *testing.T) {
	req := require.New(t)
	cache := NewCache[int]()

	_, ok := cache.RandomID()
	req.False(ok)
}

func Test_Cache_RandomID_Samples_Known_IDs(t *testing.T) {
	req := require.New(t)
	cache := NewCache[int]()
	cache.Put("x", 1)
	cache.Put("y", 2)

	for i := 0; i < 50; i++ {
		id, ok := cache.RandomID()
		req.True(ok)
		req.Contains([]string{"x", "y"}, id)
	}
}

func Test_Cache_RandomIDExcept(t *testing.T) {
	req := require.New(t)
	cache := NewCache[int]()
	cache.Put("only", 1)

	_, ok := cache.RandomIDExcept("only")
	req.False(ok)

	cache.Put("other", 2)
	for i := 0; i < 50; i++ {
		id, ok := cache.RandomIDExcept("only")
		req.True(ok)
		req.Equal("other", id)
	}
}

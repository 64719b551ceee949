package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoCache_SetAndGet(t *testing.T) {
	gc := NewGoCache(time.Minute, time.Minute)

	gc.Set(map[string][]byte{
		"key1": []byte("value1"),
		"key2": []byte("value2"),
	}, time.Minute)

	result := gc.Get([]string{"key1", "key2", "key3"})

	assert.Equal(t, []byte("value1"), result.Found["key1"])
	assert.Equal(t, []byte("value2"), result.Found["key2"])
	assert.Equal(t, []string{"key3"}, result.MissingKeys)
}

func TestGoCache_Expiration(t *testing.T) {
	gc := NewGoCache(time.Minute, time.Minute)

	gc.Set(map[string][]byte{"key1": []byte("value1")}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	result := gc.Get([]string{"key1"})
	assert.Empty(t, result.Found)
	assert.Equal(t, []string{"key1"}, result.MissingKeys)
}

func TestGoCache_Delete(t *testing.T) {
	gc := NewGoCache(time.Minute, time.Minute)

	gc.Set(map[string][]byte{
		"key1": []byte("value1"),
		"key2": []byte("value2"),
	}, time.Minute)
	gc.Delete([]string{"key1"})

	result := gc.Get([]string{"key1", "key2"})
	assert.NotContains(t, result.Found, "key1")
	assert.Contains(t, result.Found, "key2")
}

func TestGoCache_Clear(t *testing.T) {
	gc := NewGoCache(time.Minute, time.Minute)

	gc.Set(map[string][]byte{"key1": []byte("value1")}, time.Minute)
	require.Equal(t, 1, gc.ItemCount())

	gc.Clear()
	assert.Equal(t, 0, gc.ItemCount())
}

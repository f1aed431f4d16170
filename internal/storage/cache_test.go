package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntryRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte("battery: 82%")
	entry := EncodeCacheEntry(payload)

	got, ok := DecodeCacheEntry(entry)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestCacheEntryCorruption(t *testing.T) {
	t.Parallel()

	t.Run("flipped payload byte is a miss", func(t *testing.T) {
		entry := EncodeCacheEntry([]byte("steps: 4021"))
		entry[len(entry)-1] ^= 0xff

		_, ok := DecodeCacheEntry(entry)
		assert.False(t, ok)
	})

	t.Run("truncated entry is a miss", func(t *testing.T) {
		_, ok := DecodeCacheEntry([]byte{0x01, 0x02})
		assert.False(t, ok)
	})

	t.Run("empty payload still round-trips", func(t *testing.T) {
		got, ok := DecodeCacheEntry(EncodeCacheEntry(nil))
		require.True(t, ok)
		assert.Empty(t, got)
	})
}

func TestComplicationKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "complications/3.bin", ComplicationKey(3))
	assert.NotEqual(t, ComplicationKey(1), ComplicationKey(2))
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEGAR-SRC/yt-dw/internal/extractor"
)

func TestPutGet(t *testing.T) {
	c := New(10*time.Minute, nil)
	formats := []extractor.SecondaryFormat{{FormatID: "140", Ext: "m4a", ACodec: "mp4a.40.2", VCodec: "none"}}

	c.Put("abc", formats)

	got, ok := c.Get("abc")
	require.True(t, ok)
	assert.Equal(t, formats, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiredEntryEvictedOnGet(t *testing.T) {
	c := New(10*time.Minute, nil)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Put("abc", []extractor.SecondaryFormat{{FormatID: "18", Ext: "mp4"}})
	require.Equal(t, 1, c.Len())

	current = current.Add(10*time.Minute + time.Second)

	_, ok := c.Get("abc")
	assert.False(t, ok)
	// The lookup itself removes the expired entry.
	assert.Equal(t, 0, c.Len())
}

func TestEntryStillFreshAtBoundary(t *testing.T) {
	c := New(10*time.Minute, nil)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Put("abc", []extractor.SecondaryFormat{{FormatID: "18", Ext: "mp4"}})
	current = current.Add(10 * time.Minute)

	_, ok := c.Get("abc")
	assert.True(t, ok)
}

func TestPutReplaces(t *testing.T) {
	c := New(time.Minute, nil)
	c.Put("abc", []extractor.SecondaryFormat{{FormatID: "old"}})
	c.Put("abc", []extractor.SecondaryFormat{{FormatID: "new"}})

	got, ok := c.Get("abc")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].FormatID)
}

func TestDeleteRemovesEntry(t *testing.T) {
	c := New(time.Minute, nil)
	c.Put("abc", []extractor.SecondaryFormat{{FormatID: "18"}})
	c.Put("def", []extractor.SecondaryFormat{{FormatID: "22"}})

	c.Delete("abc")
	c.Delete("missing")

	_, ok := c.Get("abc")
	assert.False(t, ok)
	_, ok = c.Get("def")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

package rendercache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_MissWhenEmpty(t *testing.T) {
	s := NewSlot()

	blob, ok := s.Get("abc")
	assert.False(t, ok)
	assert.Nil(t, blob)
	assert.Empty(t, s.Fingerprint())
}

func TestSlot_PutThenGet(t *testing.T) {
	s := NewSlot()
	s.Put("abc", []byte("document"))

	blob, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, []byte("document"), blob)
	assert.Equal(t, "abc", s.Fingerprint())
}

func TestSlot_MissOnDifferentFingerprint(t *testing.T) {
	s := NewSlot()
	s.Put("abc", []byte("document"))

	_, ok := s.Get("def")
	assert.False(t, ok)
}

func TestSlot_MostRecentWins(t *testing.T) {
	s := NewSlot()
	s.Put("abc", []byte("first"))
	s.Put("def", []byte("second"))

	// The replaced entry is gone; only one entry is ever retained.
	_, ok := s.Get("abc")
	assert.False(t, ok)

	blob, ok := s.Get("def")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), blob)
}

func TestSlot_OverwriteSameFingerprint(t *testing.T) {
	s := NewSlot()
	s.Put("abc", []byte("first"))
	s.Put("abc", []byte("second"))

	blob, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), blob)
}

func TestSlot_ConcurrentAccess(t *testing.T) {
	s := NewSlot()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put("fp", []byte("blob"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("fp")
		}()
	}
	wg.Wait()

	blob, ok := s.Get("fp")
	require.True(t, ok)
	assert.Equal(t, []byte("blob"), blob)
}

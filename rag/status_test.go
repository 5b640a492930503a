package rag_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/rag"
)

func TestStatusTracker(t *testing.T) {
	t.Parallel()

	t.Run("reports idle for a domain that has never built", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		st := tracker.Status("example.com")
		assert.Equal(t, "example.com", st.Domain)
		assert.Equal(t, sitechat.StateIdle, st.State)
	})

	t.Run("begin marks the domain as building", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))

		st := tracker.Status("example.com")
		assert.Equal(t, sitechat.StateBuilding, st.State)
		assert.False(t, st.UpdatedAt.IsZero())
	})

	t.Run("rejects a second build for the same domain", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))
		assert.False(t, tracker.Begin("example.com"))
	})

	t.Run("tracks domains independently", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))
		assert.True(t, tracker.Begin("other.com"))
	})

	t.Run("finish records a successful build", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))
		tracker.Finish("example.com", &sitechat.IndexMeta{PageCount: 7, ChunkCount: 21}, nil)

		st := tracker.Status("example.com")
		assert.Equal(t, sitechat.StateReady, st.State)
		assert.Equal(t, 7, st.PageCount)
		assert.Equal(t, 21, st.ChunkCount)
		assert.Empty(t, st.Error)
	})

	t.Run("finish records a failed build", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))
		tracker.Finish("example.com", nil, sitechat.Errorf(sitechat.ECRAWLEMPTY, "no pages scraped from https://example.com"))

		st := tracker.Status("example.com")
		assert.Equal(t, sitechat.StateFailed, st.State)
		assert.Equal(t, "no pages scraped from https://example.com", st.Error)
	})

	t.Run("allows a new build after finish", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))
		tracker.Finish("example.com", nil, nil)
		assert.True(t, tracker.Begin("example.com"))
	})

	t.Run("admits exactly one concurrent build per domain", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()

		var wg sync.WaitGroup
		admitted := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				admitted <- tracker.Begin("example.com")
			}()
		}
		wg.Wait()
		close(admitted)

		count := 0
		for ok := range admitted {
			if ok {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("status returns a copy", func(t *testing.T) {
		t.Parallel()

		tracker := rag.NewStatusTracker()
		require.True(t, tracker.Begin("example.com"))

		st := tracker.Status("example.com")
		st.State = sitechat.StateFailed

		assert.Equal(t, sitechat.StateBuilding, tracker.Status("example.com").State)
	})
}

package memory_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/sequential-thinking/internal/adapters/storage/memory"
	"github.com/PabloGalante/sequential-thinking/internal/domain"
)

var _ domain.SessionStore = (*memory.SessionStore)(nil)

// stepClock advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func numbered(content string) domain.ThoughtBuilder {
	return func(ordinal int, prior []domain.Thought) domain.Thought {
		return domain.Thought{
			ID:      fmt.Sprintf("s_%d", ordinal),
			Content: content,
			Stage:   domain.StageResearch,
		}
	}
}

func TestGetOrCreateSession_CreatesOnce(t *testing.T) {
	store := memory.NewSessionStore().WithClock(stepClock())

	first, err := store.GetOrCreateSession("s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("s1"), first.ID)
	assert.Empty(t, first.Thoughts)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := store.GetOrCreateSession("s1")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	list, err := store.ListSessions()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetSession_NotFound(t *testing.T) {
	store := memory.NewSessionStore()

	_, err := store.GetSession("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.ClearSession("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.AppendThought("missing", numbered("x"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAppendThought_PassesOrdinalAndPrior(t *testing.T) {
	store := memory.NewSessionStore().WithClock(stepClock())
	_, err := store.GetOrCreateSession("s1")
	require.NoError(t, err)

	_, err = store.AppendThought("s1", numbered("one"))
	require.NoError(t, err)

	var gotOrdinal int
	var gotPrior []domain.Thought
	_, err = store.AppendThought("s1", func(ordinal int, prior []domain.Thought) domain.Thought {
		gotOrdinal = ordinal
		gotPrior = prior
		return domain.Thought{ID: "s1_2", Content: "two"}
	})
	require.NoError(t, err)

	assert.Equal(t, 2, gotOrdinal)
	require.Len(t, gotPrior, 1)
	assert.Equal(t, "one", gotPrior[0].Content)

	sess, err := store.GetSession("s1")
	require.NoError(t, err)
	require.Len(t, sess.Thoughts, 2)
	assert.Equal(t, "one", sess.Thoughts[0].Content)
	assert.Equal(t, "two", sess.Thoughts[1].Content)
	assert.True(t, sess.UpdatedAt.After(sess.CreatedAt))
}

func TestGetSession_ReturnsSnapshot(t *testing.T) {
	store := memory.NewSessionStore()
	_, _ = store.GetOrCreateSession("s1")
	_, _ = store.AppendThought("s1", numbered("original"))

	snap, err := store.GetSession("s1")
	require.NoError(t, err)
	snap.Thoughts[0].Content = "changed"
	snap.Thoughts = append(snap.Thoughts, domain.Thought{})

	again, err := store.GetSession("s1")
	require.NoError(t, err)
	require.Len(t, again.Thoughts, 1)
	assert.Equal(t, "original", again.Thoughts[0].Content)
}

func TestClearSession_KeepsSessionAndCreatedAt(t *testing.T) {
	store := memory.NewSessionStore().WithClock(stepClock())
	created, _ := store.GetOrCreateSession("s1")
	_, _ = store.AppendThought("s1", numbered("a"))
	_, _ = store.AppendThought("s1", numbered("b"))

	cleared, err := store.ClearSession("s1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Thoughts)
	assert.Equal(t, created.CreatedAt, cleared.CreatedAt)
	assert.True(t, cleared.UpdatedAt.After(created.UpdatedAt))

	list, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SessionID("s1"), list[0].SessionID)
	assert.Equal(t, 0, list[0].ThoughtCount)
	assert.Equal(t, created.CreatedAt, list[0].CreatedAt)
}

func TestListSessions_InsertionOrder(t *testing.T) {
	store := memory.NewSessionStore()
	for _, id := range []domain.SessionID{"c", "a", "b"} {
		_, _ = store.GetOrCreateSession(id)
	}
	_, _ = store.AppendThought("a", numbered("x"))

	list, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.SessionID("c"), list[0].SessionID)
	assert.Equal(t, domain.SessionID("a"), list[1].SessionID)
	assert.Equal(t, domain.SessionID("b"), list[2].SessionID)
	assert.Equal(t, 1, list[1].ThoughtCount)
}

func TestAppendThought_ConcurrentWritersGetDistinctOrdinals(t *testing.T) {
	store := memory.NewSessionStore()
	_, _ = store.GetOrCreateSession("s1")

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.AppendThought("s1", func(ordinal int, prior []domain.Thought) domain.Thought {
				// Yield while "enriching" to widen the race window.
				time.Sleep(time.Millisecond)
				return domain.Thought{ID: fmt.Sprintf("s1_%d", ordinal)}
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := store.GetSession("s1")
	require.NoError(t, err)
	require.Len(t, sess.Thoughts, writers)
	for i, th := range sess.Thoughts {
		assert.Equal(t, fmt.Sprintf("s1_%d", i+1), th.ID)
	}
}

func TestGetOrCreateSession_ConcurrentCreatesRegisterOnce(t *testing.T) {
	store := memory.NewSessionStore()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.GetOrCreateSession("shared")
		}()
	}
	wg.Wait()

	list, err := store.ListSessions()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

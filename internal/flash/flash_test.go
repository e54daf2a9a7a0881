package flash

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLists struct {
	lists map[string][]string
	ttls  map[string]time.Duration
}

func newFakeLists() *fakeLists {
	return &fakeLists{lists: map[string][]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeLists) AppendList(_ context.Context, key string, ttl time.Duration, values ...string) error {
	f.lists[key] = append(f.lists[key], values...)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeLists) DrainList(_ context.Context, key string) ([]string, error) {
	values := f.lists[key]
	delete(f.lists, key)
	return values, nil
}

func (f *fakeLists) FlashKey(sessionID string) string {
	return "mp:flash:" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	lists := newFakeLists()
	store, err := NewRedisStore(lists, 10*time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "abc", Error("Your cart is empty.")))
	require.NoError(t, store.Add(ctx, "abc", Success("Saved")))
	assert.Equal(t, 10*time.Minute, lists.ttls["mp:flash:abc"])

	msgs, err := store.Pop(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, LevelError, msgs[0].Level)
	assert.Equal(t, "Your cart is empty.", msgs[0].Text)
	assert.Equal(t, LevelSuccess, msgs[1].Level)

	msgs, err = store.Pop(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.Error(t, store.Add(ctx, " ", Info("x")))
}

func TestMemoryStorePopsOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "s1", Info("hello")))
	require.NoError(t, store.Add(ctx, "s2", Info("other")))

	msgs, err := store.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []Message{Info("hello")}, msgs)

	msgs, _ = store.Pop(ctx, "s1")
	assert.Empty(t, msgs)
	msgs, _ = store.Pop(ctx, "s2")
	assert.Len(t, msgs, 1)
}

package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/chatrelay/internal/store"
	"github.com/johndosdos/chatrelay/internal/testutil"
)

// backends returns every persisting store. The postgres case is skipped
// without TEST_DB_URL.
var backends = []struct {
	name string
	open func(t *testing.T) store.MessageStore
}{
	{"sqlite", func(t *testing.T) store.MessageStore { return testutil.SQLiteStore(t) }},
	{"postgres", func(t *testing.T) store.MessageStore { return testutil.PostgresStore(t) }},
}

func TestAppendThenListAll(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			st := b.open(t)
			ctx := context.Background()
			at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			id, err := st.Append(ctx, "alice", "hi", at)
			require.NoError(t, err)
			assert.Positive(t, id)

			messages, err := st.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, messages, 1)

			assert.Equal(t, id, messages[0].ID)
			assert.Equal(t, "alice", messages[0].Nickname)
			assert.Equal(t, "hi", messages[0].Body)
			assert.True(t, at.Equal(messages[0].CreatedAt), "created_at = %v", messages[0].CreatedAt)
		})
	}
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			st := b.open(t)
			ctx := context.Background()

			var ids []int64
			for _, body := range []string{"one", "two", "three"} {
				id, err := st.Append(ctx, "bob", body, time.Now().UTC())
				require.NoError(t, err)
				ids = append(ids, id)
			}

			assert.Less(t, ids[0], ids[1])
			assert.Less(t, ids[1], ids[2])

			messages, err := st.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, messages, 3)
			for i, m := range messages {
				assert.Equal(t, ids[i], m.ID)
			}
			assert.Equal(t, "three", messages[2].Body)
		})
	}
}

func TestAppendZeroTimeUsesNow(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			st := b.open(t)
			ctx := context.Background()
			before := time.Now().UTC().Add(-time.Minute)

			_, err := st.Append(ctx, "carol", "no date", time.Time{})
			require.NoError(t, err)

			messages, err := st.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, messages, 1)
			assert.True(t, messages[0].CreatedAt.After(before), "created_at = %v", messages[0].CreatedAt)
		})
	}
}

func TestAppendRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		body     string
	}{
		{"empty nickname", "", "hi"},
		{"blank nickname", "   ", "hi"},
		{"empty body", "alice", ""},
		{"blank body", "alice", "\n\t"},
		{"nickname too long", strings.Repeat("a", store.MaxNicknameLen+1), "hi"},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			st := b.open(t)
			ctx := context.Background()

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					_, err := st.Append(ctx, tt.nickname, tt.body, time.Now())
					assert.ErrorIs(t, err, store.ErrValidation)
					assert.NotErrorIs(t, err, store.ErrPersistence)
				})
			}

			messages, err := st.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, messages)
		})
	}
}

func TestClosedStoreFailsWithPersistenceError(t *testing.T) {
	st, err := store.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	ctx := context.Background()

	_, err = st.Append(ctx, "alice", "hi", time.Now())
	assert.ErrorIs(t, err, store.ErrPersistence)

	_, err = st.ListAll(ctx)
	assert.ErrorIs(t, err, store.ErrPersistence)
}

func TestNopStore(t *testing.T) {
	var st store.MessageStore = store.NopStore{}
	ctx := context.Background()

	id, err := st.Append(ctx, "", "", time.Time{})
	require.NoError(t, err)
	assert.Zero(t, id)

	messages, err := st.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.NoError(t, st.Close())
}

package scope

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	assert.False(t, Attached(ctx))
	assert.NotNil(t, FromContext(ctx), "unattached contexts get a fresh scope")

	s := New(ctx)
	ctx = WithContext(ctx, s)

	assert.True(t, Attached(ctx))
	assert.Same(t, s, FromContext(ctx))
	assert.False(t, Attached(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestMemo_CachesValue(t *testing.T) {
	s := New(context.Background())

	var calls int32

	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)

		return "official", nil
	}

	for range 3 {
		got, err := Memo(context.Background(), s, "tag", fetch)
		require.NoError(t, err)
		assert.Equal(t, "official", got)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	s.Forget("tag")

	_, err := Memo(context.Background(), s, "tag", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	s := New(context.Background())
	boom := errors.New("store down")

	var calls int32

	fetch := func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, boom
		}

		return 7, nil
	}

	_, err := Memo(context.Background(), s, "count", fetch)
	require.ErrorIs(t, err, boom)

	got, err := Memo(context.Background(), s, "count", fetch)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestMemo_NilPointerIsCached(t *testing.T) {
	type user struct{ ID string }

	s := New(context.Background())

	var calls int32

	fetch := func(context.Context) (*user, error) {
		atomic.AddInt32(&calls, 1)

		return nil, nil
	}

	for range 2 {
		got, err := Memo(context.Background(), s, "user", fetch)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemo_FetchUsesCallerContext(t *testing.T) {
	s := New(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Memo(ctx, s, "tags", func(ctx context.Context) ([]string, error) {
		return nil, ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := Memo(context.Background(), s, "tags", func(ctx context.Context) ([]string, error) {
		return []string{"official"}, ctx.Err()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"official"}, got)
}

func TestMemo_ConcurrentCallersShareFetch(t *testing.T) {
	s := New(context.Background())

	release := make(chan struct{})

	var calls int32

	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release

		return 42, nil
	}

	var wg sync.WaitGroup

	results := make([]int, 8)
	for i := range results {
		wg.Go(func() {
			v, err := Memo(context.Background(), s, "answer", fetch)
			assert.NoError(t, err)
			results[i] = v
		})
	}

	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

type recordingAction struct {
	name        string
	log         *[]string
	executeErr  error
	rollbackErr error
}

func (a *recordingAction) Execute(context.Context) error {
	*a.log = append(*a.log, "do "+a.name)

	return a.executeErr
}

func (a *recordingAction) Rollback(context.Context) error {
	*a.log = append(*a.log, "undo "+a.name)

	return a.rollbackErr
}

func (a *recordingAction) Description() string { return a.name }

func TestCommit_RunsInOrder(t *testing.T) {
	s := New(context.Background())

	var log []string

	require.NoError(t, s.Stage(&recordingAction{name: "store", log: &log}))
	require.NoError(t, s.Stage(&recordingAction{name: "publish", log: &log}))
	assert.Len(t, s.Staged(), 2)

	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []string{"do store", "do publish"}, log)

	assert.ErrorIs(t, s.Stage(&recordingAction{name: "late", log: &log}), ErrCommitted)
	assert.ErrorIs(t, s.Commit(context.Background()), ErrCommitted)
}

func TestCommit_RollsBackInReverse(t *testing.T) {
	s := New(context.Background())
	boom := errors.New("redis down")

	var log []string

	_ = s.Stage(&recordingAction{name: "a", log: &log})
	_ = s.Stage(&recordingAction{name: "b", log: &log})
	_ = s.Stage(&recordingAction{name: "c", log: &log, executeErr: boom})
	_ = s.Stage(&recordingAction{name: "d", log: &log})

	err := s.Commit(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c: redis down")

	assert.Equal(t, []string{"do a", "do b", "do c", "undo b", "undo a"}, log)
	assert.Empty(t, s.Staged())
}

func TestCommit_JoinsRollbackErrors(t *testing.T) {
	s := New(context.Background())
	boom := errors.New("publish failed")
	stuck := errors.New("delete failed")

	var log []string

	_ = s.Stage(&recordingAction{name: "store", log: &log, rollbackErr: stuck})
	_ = s.Stage(&recordingAction{name: "publish", log: &log, executeErr: boom})

	err := s.Commit(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, stuck)
	assert.Contains(t, err.Error(), "rollback store")
}

func TestCommit_FailedScopeCanBeRestaged(t *testing.T) {
	s := New(context.Background())

	var log []string

	_ = s.Stage(&recordingAction{name: "x", log: &log, executeErr: errors.New("no")})
	require.Error(t, s.Commit(context.Background()))

	require.NoError(t, s.Stage(&recordingAction{name: "y", log: &log}))
	require.NoError(t, s.Commit(context.Background()))
}

func TestStep(t *testing.T) {
	var did, undid bool

	st := Step{
		Name: "store submission",
		Do:   func(context.Context) error { did = true; return nil },
		Undo: func(context.Context) error { undid = true; return nil },
	}

	require.NoError(t, st.Execute(context.Background()))
	require.NoError(t, st.Rollback(context.Background()))
	assert.True(t, did)
	assert.True(t, undid)
	assert.Equal(t, "store submission", st.Description())

	assert.NoError(t, Step{Name: "publish"}.Rollback(context.Background()))
}

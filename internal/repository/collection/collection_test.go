package collection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/memory"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// recordingKV wraps a store and records every write key.
type recordingKV struct {
	domain.KVStore
	mu      sync.Mutex
	sets    []string
	deletes []string
	failGet error
}

func (r *recordingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if r.failGet != nil {
		return "", false, r.failGet
	}
	return r.KVStore.Get(ctx, key)
}

func (r *recordingKV) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.sets = append(r.sets, key)
	r.mu.Unlock()
	return r.KVStore.Set(ctx, key, value)
}

func (r *recordingKV) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	r.deletes = append(r.deletes, key)
	r.mu.Unlock()
	return r.KVStore.Delete(ctx, key)
}

func (r *recordingKV) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets, r.deletes = nil, nil
}

func newTasks(t *testing.T) (*Collection[*domain.Task], *recordingKV) {
	t.Helper()
	kv := &recordingKV{KVStore: memory.NewKVStore()}
	return New(kv, domain.KindTasks, func(x *domain.Task) string { return x.ID }, testLogger), kv
}

func task(id, title string) *domain.Task {
	return &domain.Task{ID: id, EventID: "e1", Title: title, CreatedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestCollection_LoadMissingIsEmpty(t *testing.T) {
	c, _ := newTasks(t)
	items, err := c.Load(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	exists, err := c.Exists(context.Background(), "e1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCollection_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newTasks(t)
	in := []*domain.Task{task("3", "c"), task("1", "a"), task("2", "b")}
	require.NoError(t, c.ReplaceAll(ctx, "e1", in))

	out, err := c.Load(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCollection_KeysAreNamespacedByEvent(t *testing.T) {
	ctx := context.Background()
	c, kv := newTasks(t)
	require.NoError(t, c.Append(ctx, "e1", task("1", "a")))

	assert.ElementsMatch(t, []string{"tasks:e1:1", "tasks:e1"}, kv.sets)
	other, err := c.Load(ctx, "e2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCollection_UpdateRewritesOnlyChangedRecord(t *testing.T) {
	ctx := context.Background()
	c, kv := newTasks(t)
	require.NoError(t, c.ReplaceAll(ctx, "e1", []*domain.Task{task("1", "a"), task("2", "b")}))
	kv.reset()

	got, err := c.Update(ctx, "e1", "2", func(x *domain.Task) (*domain.Task, error) {
		x.Completed = true
		return x, nil
	})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, []string{"tasks:e1:2"}, kv.sets, "index and untouched records are not rewritten")
	assert.Empty(t, kv.deletes)
}

func TestCollection_RemoveDeletesExactlyOne(t *testing.T) {
	ctx := context.Background()
	c, kv := newTasks(t)
	require.NoError(t, c.ReplaceAll(ctx, "e1", []*domain.Task{task("1", "a"), task("2", "b"), task("3", "c")}))
	kv.reset()

	require.NoError(t, c.Remove(ctx, "e1", "2"))
	assert.Equal(t, []string{"tasks:e1"}, kv.sets)
	assert.Equal(t, []string{"tasks:e1:2"}, kv.deletes)

	items, err := c.Load(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)

	err = c.Remove(ctx, "e1", "2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCollection_InsertAndUpsert(t *testing.T) {
	ctx := context.Background()
	c, _ := newTasks(t)
	require.NoError(t, c.Append(ctx, "e1", task("1", "a")))
	require.NoError(t, c.Insert(ctx, "e1", 0, task("0", "first")))
	require.NoError(t, c.Insert(ctx, "e1", 99, task("9", "last")))
	require.NoError(t, c.Upsert(ctx, "e1", task("1", "renamed")))

	items, err := c.Load(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"0", "1", "9"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "renamed", items[1].Title)
}

func TestCollection_RejectsDuplicateIDs(t *testing.T) {
	c, _ := newTasks(t)
	err := c.ReplaceAll(context.Background(), "e1", []*domain.Task{task("1", "a"), task("1", "b")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCollection_FailsSoftOnCorruptData(t *testing.T) {
	ctx := context.Background()
	c, kv := newTasks(t)
	require.NoError(t, kv.Set(ctx, "tasks:e1", "not json"))

	items, err := c.Load(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, kv.Set(ctx, "tasks:e1", `["1","2","3"]`))
	require.NoError(t, kv.Set(ctx, "tasks:e1:1", `{"id":"1","title":"ok"}`))
	require.NoError(t, kv.Set(ctx, "tasks:e1:2", `{broken`))

	items, err = c.Load(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ok", items[0].Title)

	exists, err := c.Exists(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCollection_BackendErrorIsReturned(t *testing.T) {
	c, kv := newTasks(t)
	kv.failGet = errors.New("connection refused")
	_, err := c.Load(context.Background(), "e1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestCollection_DropRemovesEverything(t *testing.T) {
	ctx := context.Background()
	c, kv := newTasks(t)
	require.NoError(t, c.ReplaceAll(ctx, "e1", []*domain.Task{task("1", "a"), task("2", "b")}))
	require.NoError(t, c.Append(ctx, "e10", task("1", "other event")))

	require.NoError(t, c.Drop(ctx, "e1"))

	left, err := kv.Keys(ctx, "tasks:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tasks:e10", "tasks:e10:1"}, left)
}

func TestCollection_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	c, _ := newTasks(t)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, c.Append(ctx, "e1", task(id, id)))
		}()
	}
	wg.Wait()

	items, err := c.Load(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestDocument_GetPutUpdate(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	d := NewDocument[*domain.RSVPForm](kv, domain.KindRSVPForm, testLogger)

	_, found, err := d.Get(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, found)

	form := &domain.RSVPForm{ID: "f1", EventID: "e1", Fields: []domain.RSVPField{
		{ID: "1", Name: "name", Type: domain.FieldText},
		{ID: "2", Name: "email", Type: domain.FieldEmail},
	}, IsActive: true}
	require.NoError(t, d.Put(ctx, "e1", form))

	got, err := d.Update(ctx, "e1", func(f *domain.RSVPForm, found bool) (*domain.RSVPForm, error) {
		require.True(t, found)
		f.IsActive = false
		return f, nil
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	loaded, found, err := d.Get(ctx, "e1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"name", "email"}, []string{loaded.Fields[0].Name, loaded.Fields[1].Name})

	require.NoError(t, kv.Set(ctx, "rsvp_form:e1", "{"))
	_, found, err = d.Get(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, d.Delete(ctx, "e1"))
	require.NoError(t, d.Delete(ctx, "e1"))
}

func TestCollection_SeedOnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	c, _ := newTasks(t)

	wrote, err := c.Seed(ctx, "e1", []*domain.Task{task("1", "seeded")})
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = c.Seed(ctx, "e1", []*domain.Task{task("2", "again")})
	require.NoError(t, err)
	assert.False(t, wrote)

	require.NoError(t, c.Remove(ctx, "e1", "1"))
	wrote, err = c.Seed(ctx, "e1", []*domain.Task{task("3", "after emptying")})
	require.NoError(t, err)
	assert.False(t, wrote, "an empty but written collection is not reseeded")
}

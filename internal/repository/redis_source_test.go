package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

const deliveryWait = 2 * time.Second

func newRedisSource(t *testing.T) (*RedisSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSource(rdb, ""), mr
}

func nextDelivery[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(deliveryWait):
		t.Fatal("no delivery")
	}
	var zero T
	return zero
}

func quiet[T any](t *testing.T, ch chan T, d time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected delivery: %+v", v)
	case <-time.After(d):
	}
}

func TestRedisSource_WatchAllRedelivers(t *testing.T) {
	src, _ := newRedisSource(t)
	ctx := context.Background()

	got := make(chan []model.Movie, 8)
	unsub, err := src.WatchAll(ctx, func(m []model.Movie) { got <- m })
	require.NoError(t, err)
	defer unsub()

	first := nextDelivery(t, got)
	assert.NotNil(t, first)
	assert.Empty(t, first, "absent collection is an empty list")

	require.NoError(t, src.Put(ctx, model.Movie{ID: "1", Title: "Dune: Part Two"}))
	list := nextDelivery(t, got)
	require.Len(t, list, 1)
	assert.Equal(t, "Dune: Part Two", list[0].Title)

	require.NoError(t, src.Put(ctx, model.Movie{ID: "2", Title: "Oppenheimer"}))
	assert.Len(t, nextDelivery(t, got), 2, "every change delivers the whole list")

	require.NoError(t, src.Delete(ctx, "1"))
	list = nextDelivery(t, got)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)

	assert.ErrorIs(t, src.Delete(ctx, "1"), ErrMovieNotFound)
}

func TestRedisSource_WatchOne(t *testing.T) {
	src, _ := newRedisSource(t)
	ctx := context.Background()

	got := make(chan *model.Movie, 8)
	unsub, err := src.Watch(ctx, "1", func(m *model.Movie) { got <- m })
	require.NoError(t, err)
	defer unsub()
	assert.Nil(t, nextDelivery(t, got), "missing movie is nil")

	require.NoError(t, src.Replace(ctx, []model.Movie{
		{ID: "1", Title: "Dune: Part Two"},
		{ID: "2", Title: "Oppenheimer"},
	}))
	m := nextDelivery(t, got)
	require.NotNil(t, m, "bulk replace reaches single-movie watchers")
	assert.Equal(t, "Dune: Part Two", m.Title)

	require.NoError(t, src.Put(ctx, model.Movie{ID: "2", Title: "Oppenheimer (IMAX)"}))
	quiet(t, got, 100*time.Millisecond)

	require.NoError(t, src.Delete(ctx, "1"))
	assert.Nil(t, nextDelivery(t, got))
}

func TestRedisSource_ReplaceSwapsCatalog(t *testing.T) {
	src, mr := newRedisSource(t)
	ctx := context.Background()
	mr.HSet(MoviesPath, "old", `{"title":"Gone"}`)

	require.NoError(t, src.Replace(ctx, []model.Movie{{ID: "1", Title: "Dune: Part Two"}}))

	list, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	m, err := src.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two", m.Title)
	_, err = src.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestRedisSource_ExternalNotification(t *testing.T) {
	src, mr := newRedisSource(t)
	ctx := context.Background()

	got := make(chan []model.Movie, 8)
	unsub, err := src.WatchAll(ctx, func(m []model.Movie) { got <- m })
	require.NoError(t, err)
	defer unsub()
	nextDelivery(t, got)

	mr.HSet(MoviesPath, "9", `{"title":"Furiosa","genre":["Action","Adventure"]}`)
	mr.Publish(MoviesPath+":changes", "9")

	list := nextDelivery(t, got)
	require.Len(t, list, 1)
	assert.Equal(t, "9", list[0].ID)
	assert.Equal(t, model.Genre{"Action", "Adventure"}, list[0].Genre)
}

func TestRedisSource_UnsubscribeStopsDelivery(t *testing.T) {
	src, _ := newRedisSource(t)
	ctx := context.Background()

	got := make(chan []model.Movie, 8)
	unsub, err := src.WatchAll(ctx, func(m []model.Movie) { got <- m })
	require.NoError(t, err)
	nextDelivery(t, got)

	unsub()
	unsub()
	require.NoError(t, src.Put(ctx, model.Movie{ID: "1", Title: "Dune: Part Two"}))
	quiet(t, got, 200*time.Millisecond)
}

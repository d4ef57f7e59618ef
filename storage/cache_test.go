package storage

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"verva-api/domain"
)

type stubBackend struct {
	loadFn func(ctx context.Context, userID string) ([]domain.Task, error)
	saveFn func(ctx context.Context, userID string, tasks []domain.Task) error
}

func (s *stubBackend) Load(ctx context.Context, userID string) ([]domain.Task, error) {
	if s.loadFn == nil {
		return nil, errors.New("unexpected Load call")
	}
	return s.loadFn(ctx, userID)
}

func (s *stubBackend) Save(ctx context.Context, userID string, tasks []domain.Task) error {
	if s.saveFn == nil {
		return errors.New("unexpected Save call")
	}
	return s.saveFn(ctx, userID, tasks)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheLoadMissThenHit(t *testing.T) {
	mr, client := newTestRedis(t)

	ctx := context.Background()
	userID := "user-1"
	expected := []domain.Task{{ID: "t1", Title: "Write code"}}

	var calls int
	cache := NewCache(&stubBackend{
		loadFn: func(ctx context.Context, uid string) ([]domain.Task, error) {
			calls++
			if uid != userID {
				t.Fatalf("unexpected user id: %s", uid)
			}
			return append([]domain.Task(nil), expected...), nil
		},
	}, client, time.Minute)

	tasks, err := cache.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(tasks, expected) {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call to backend, got %d", calls)
	}
	if ttl := mr.TTL(tasksCacheKey(userID)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	// Second load must be served from the cache.
	if _, err := cache.Load(ctx, userID); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected backend untouched on hit, got %d calls", calls)
	}
}

func TestCacheLoadCorruptEntryFallsBack(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	userID := "user-2"

	mr.Set(tasksCacheKey(userID), "{{not json")

	cache := NewCache(&stubBackend{
		loadFn: func(ctx context.Context, uid string) ([]domain.Task, error) {
			return []domain.Task{{ID: "fresh"}}, nil
		},
	}, client, time.Minute)

	tasks, err := cache.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "fresh" {
		t.Fatalf("expected backend data, got %#v", tasks)
	}
}

func TestCacheSaveWritesThrough(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	userID := "user-3"
	tasks := []domain.Task{{ID: "t9", Title: "Ship it"}}

	var saved []domain.Task
	cache := NewCache(&stubBackend{
		saveFn: func(ctx context.Context, uid string, ts []domain.Task) error {
			saved = ts
			return nil
		},
	}, client, time.Minute)

	if err := cache.Save(ctx, userID, tasks); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !reflect.DeepEqual(saved, tasks) {
		t.Fatalf("backend save mismatch: %#v", saved)
	}

	raw, err := mr.Get(tasksCacheKey(userID))
	if err != nil {
		t.Fatalf("expected cache entry after save: %v", err)
	}
	var cached []domain.Task
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("decode cache entry: %v", err)
	}
	if !reflect.DeepEqual(cached, tasks) {
		t.Fatalf("cache entry mismatch: %#v", cached)
	}
}

func TestCacheSaveBackendErrorSkipsCache(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	userID := "user-4"

	cache := NewCache(&stubBackend{
		saveFn: func(ctx context.Context, uid string, ts []domain.Task) error {
			return errors.New("table down")
		},
	}, client, time.Minute)

	if err := cache.Save(ctx, userID, []domain.Task{{ID: "x"}}); err == nil {
		t.Fatal("expected save error")
	}
	if mr.Exists(tasksCacheKey(userID)) {
		t.Fatal("cache must not hold data the backend rejected")
	}
}

func TestCacheNilRedisDelegates(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(&stubBackend{
		loadFn: func(ctx context.Context, uid string) ([]domain.Task, error) {
			return []domain.Task{}, nil
		},
		saveFn: func(ctx context.Context, uid string, ts []domain.Task) error {
			return nil
		},
	}, nil, time.Minute)

	if _, err := cache.Load(ctx, "u"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cache.Save(ctx, "u", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
}

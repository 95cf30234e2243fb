package services

import (
	"context"
	"testing"

	"quizbackend/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *QuizCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewQuizCache(client)
}

func TestQuizCacheServesFromRedisAfterFirstLoad(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func() (*models.Quiz, error) {
		loads++
		return &models.Quiz{ID: 1, Title: "Cached quiz", Code: "AB12CD34"}, nil
	}

	for i := 0; i < 3; i++ {
		quiz, err := cache.QuizByCode(ctx, "AB12CD34", load)
		if err != nil {
			t.Fatalf("lookup %d failed: %v", i, err)
		}
		if quiz.ID != 1 || quiz.Code != "AB12CD34" {
			t.Fatalf("unexpected quiz from cache: %+v", quiz)
		}
	}

	if loads != 1 {
		t.Fatalf("expected a single store load, got %d", loads)
	}
}

func TestQuizCacheInvalidateForcesReload(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func() (*models.Quiz, error) {
		loads++
		return &models.Quiz{ID: 1, Code: "AB12CD34"}, nil
	}

	if _, err := cache.QuizByCode(ctx, "AB12CD34", load); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	cache.Invalidate(ctx, "AB12CD34")
	if _, err := cache.QuizByCode(ctx, "AB12CD34", load); err != nil {
		t.Fatalf("lookup after invalidate failed: %v", err)
	}

	if loads != 2 {
		t.Fatalf("expected reload after invalidate, got %d loads", loads)
	}
}

func TestQuizCacheDoesNotCacheMisses(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func() (*models.Quiz, error) {
		loads++
		return nil, NotFoundError("quiz not found")
	}

	for i := 0; i < 2; i++ {
		_, err := cache.QuizByCode(ctx, "NOPE0000", load)
		if KindOf(err) != KindNotFound {
			t.Fatalf("expected NotFound, got %v", err)
		}
	}

	if loads != 2 {
		t.Fatalf("misses must fall through to the store every time, got %d loads", loads)
	}
}

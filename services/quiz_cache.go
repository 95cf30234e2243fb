package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"quizbackend/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const quizCodeKeyPrefix = "quiz:code:"

// QuizCache caches quiz rows by join code in redis. Codes are immutable
// after creation, so cached entries only go stale when a quiz is deleted;
// DeleteQuiz invalidates explicitly and the TTL bounds everything else.
// Concurrent fills for the same code are collapsed through singleflight.
type QuizCache struct {
	redis *redis.Client
	group singleflight.Group
	ttl   time.Duration
}

func NewQuizCache(redisClient *redis.Client) *QuizCache {
	return &QuizCache{
		redis: redisClient,
		ttl:   10 * time.Minute,
	}
}

func (c *QuizCache) QuizByCode(ctx context.Context, code string, load func() (*models.Quiz, error)) (*models.Quiz, error) {
	key := quizCodeKeyPrefix + code

	data, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var quiz models.Quiz
		if err := json.Unmarshal([]byte(data), &quiz); err == nil {
			return &quiz, nil
		}
		log.Printf("Failed to unmarshal cached quiz for code %s, falling back to store", code)
	} else if err != redis.Nil {
		log.Printf("Redis error getting quiz for code %s: %v", code, err)
	}

	result, err, _ := c.group.Do(code, func() (interface{}, error) {
		quiz, err := load()
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(quiz); err == nil {
			if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
				log.Printf("Failed to cache quiz for code %s: %v", code, err)
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Quiz), nil
}

func (c *QuizCache) Invalidate(ctx context.Context, code string) {
	if err := c.redis.Del(ctx, quizCodeKeyPrefix+code).Err(); err != nil {
		log.Printf("Failed to invalidate cached quiz for code %s: %v", code, err)
	}
}

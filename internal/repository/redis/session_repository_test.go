package redis

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	repo := NewSessionRepository(client, "test")
	client.Del(ctx, "session:test")

	token, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}

	if err := repo.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, _ = repo.Load(ctx)
	if token != "tok-1" {
		t.Errorf("expected tok-1, got %q", token)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	token, _ = repo.Load(ctx)
	if token != "" {
		t.Errorf("expected empty token after delete, got %q", token)
	}
}

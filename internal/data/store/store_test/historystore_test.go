package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/data/redisStore"
	"github.com/akolanti/SemanticSearchAPI/internal/data/store"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisHistoryStore_RecentFirst(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	historyStore := store.TestHistoryStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "history-trace")

	for i := 0; i < 3; i++ {
		entry := searchModel.HistoryEntry{
			Query:       fmt.Sprintf("query-%d", i),
			Timestamp:   time.Now().UTC(),
			ResultCount: i,
		}
		if err := historyStore.SaveEntry(ctx, entry); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}
	}

	entries, err := historyStore.RecentEntries(ctx)
	if err != nil {
		t.Fatalf("RecentEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Query != "query-2" || entries[2].Query != "query-0" {
		t.Errorf("Expected newest first, got %+v", entries)
	}
}

func TestRedisHistoryStore_Bounded(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	historyStore := store.TestHistoryStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "history-trace")

	total := config.HistoryListLimit + 10
	for i := 0; i < total; i++ {
		entry := searchModel.HistoryEntry{Query: fmt.Sprintf("query-%d", i), Timestamp: time.Now().UTC()}
		if err := historyStore.SaveEntry(ctx, entry); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}
	}

	entries, err := historyStore.RecentEntries(ctx)
	if err != nil {
		t.Fatalf("RecentEntries failed: %v", err)
	}
	if len(entries) != config.HistoryListLimit {
		t.Fatalf("Expected the list capped at %d, got %d", config.HistoryListLimit, len(entries))
	}
	if entries[0].Query != fmt.Sprintf("query-%d", total-1) {
		t.Errorf("Expected the newest entry first, got %q", entries[0].Query)
	}
}

func TestInMemoryHistoryStore(t *testing.T) {
	historyStore := store.InitHistoryStore()
	ctx := context.Background()

	total := config.HistoryListLimit + 5
	for i := 0; i < total; i++ {
		entry := searchModel.HistoryEntry{Query: fmt.Sprintf("query-%d", i), Timestamp: time.Now().UTC()}
		if err := historyStore.SaveEntry(ctx, entry); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}
	}

	entries, err := historyStore.RecentEntries(ctx)
	if err != nil {
		t.Fatalf("RecentEntries failed: %v", err)
	}
	if len(entries) != config.HistoryListLimit {
		t.Fatalf("Expected the list capped at %d, got %d", config.HistoryListLimit, len(entries))
	}
	if entries[0].Query != fmt.Sprintf("query-%d", total-1) {
		t.Errorf("Expected the newest entry first, got %q", entries[0].Query)
	}
}

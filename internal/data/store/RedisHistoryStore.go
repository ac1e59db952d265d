package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter/utils"
	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/data/redisStore"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

// historyKey is the single Redis list holding recent searches.
const historyKey = "search_history"

type RedisHistoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisHistoryStore returns nil when redis is offline so main can fall
// back to the in-memory store.
func GetRedisHistoryStore(ctx context.Context) *RedisHistoryStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisHistoryStore)
	if backing == nil {
		return nil
	}
	return &RedisHistoryStore{
		store:  backing,
		logger: logger_i.NewLogger("HistoryStore"),
	}
}

func (s *RedisHistoryStore) SaveEntry(ctx context.Context, entry searchModel.HistoryEntry) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error("Error marshalling history entry :", "error", err)
		return err
	}
	if err := s.store.ListPush(ctx, historyKey, data); err != nil {
		log.Error("error saving history entry", "error:", err)
		return err
	}
	// The list is bounded, old searches roll off
	if err := s.store.ListTrim(ctx, historyKey, config.HistoryListLimit); err != nil {
		log.Error("error trimming history", "error:", err)
		return err
	}
	log.Debug("Saved history entry")
	return nil
}

func (s *RedisHistoryStore) RecentEntries(ctx context.Context) ([]searchModel.HistoryEntry, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	raw, err := s.store.ListGetRecent(ctx, historyKey, config.HistoryListLimit)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return nil, err
	}

	// Newest first
	entries := make([]searchModel.HistoryEntry, 0, len(raw))
	for _, item := range utils.ReverseStringArray(raw) {
		var entry searchModel.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			log.Error("Skipping corrupt history entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func TestHistoryStore(store *redisStore.Store) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  store,
		logger: logger_i.NewLogger("test history"),
	}
}

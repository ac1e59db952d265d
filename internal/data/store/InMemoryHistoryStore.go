package store

import (
	"context"
	"sync"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
)

type InMemoryHistoryStore struct {
	historyLock *sync.RWMutex
	entries     []searchModel.HistoryEntry
}

func InitHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		historyLock: new(sync.RWMutex),
	}
}

func (store *InMemoryHistoryStore) SaveEntry(ctx context.Context, entry searchModel.HistoryEntry) error {
	store.historyLock.Lock()
	defer store.historyLock.Unlock()

	store.entries = append(store.entries, entry)
	if len(store.entries) > config.HistoryListLimit {
		store.entries = store.entries[len(store.entries)-config.HistoryListLimit:]
	}
	return nil
}

func (store *InMemoryHistoryStore) RecentEntries(ctx context.Context) ([]searchModel.HistoryEntry, error) {
	store.historyLock.RLock()
	defer store.historyLock.RUnlock()

	// Newest first
	out := make([]searchModel.HistoryEntry, 0, len(store.entries))
	for i := len(store.entries) - 1; i >= 0; i-- {
		out = append(out, store.entries[i])
	}
	return out, nil
}

package historyservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	historydb "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories"
)

// FakeHistoryRepo is an in-memory Repository keyed by game ID. Insert mirrors
// the ON CONFLICT DO NOTHING behavior of the real table.
type FakeHistoryRepo struct {
	mu      sync.Mutex
	trace   []string
	entries map[uuid.UUID]*historydb.HistoryEntry

	InsertFunc      func(ctx context.Context, db bun.IDB, entry *historydb.HistoryEntry) (bool, error)
	ListFunc        func(ctx context.Context, db bun.IDB, limit int) ([]historydb.HistoryEntry, error)
	GetByGameIDFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*historydb.HistoryEntry, error)
	DeleteAllFunc   func(ctx context.Context, db bun.IDB) error
}

func NewFakeHistoryRepo() *FakeHistoryRepo {
	return &FakeHistoryRepo{entries: make(map[uuid.UUID]*historydb.HistoryEntry)}
}

func (f *FakeHistoryRepo) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, call)
}

func (f *FakeHistoryRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeHistoryRepo) Insert(ctx context.Context, db bun.IDB, entry *historydb.HistoryEntry) (bool, error) {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, entry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.entries[entry.GameID]; exists {
		return false, nil
	}
	f.entries[entry.GameID] = entry
	return true, nil
}

func (f *FakeHistoryRepo) List(ctx context.Context, db bun.IDB, limit int) ([]historydb.HistoryEntry, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, limit)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]historydb.HistoryEntry, 0, len(f.entries))
	for _, e := range f.entries {
		entries = append(entries, *e)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *FakeHistoryRepo) GetByGameID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*historydb.HistoryEntry, error) {
	f.record("GetByGameID")
	if f.GetByGameIDFunc != nil {
		return f.GetByGameIDFunc(ctx, db, gameID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[gameID]
	if !ok {
		return nil, historydb.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *FakeHistoryRepo) DeleteAll(ctx context.Context, db bun.IDB) error {
	f.record("DeleteAll")
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[uuid.UUID]*historydb.HistoryEntry)
	return nil
}

var _ historydb.Repository = (*FakeHistoryRepo)(nil)

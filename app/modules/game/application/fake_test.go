package gameservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace  []string
	stored *gamedb.Game

	GetActiveFunc func(ctx context.Context, db bun.IDB) (*gamedb.Game, error)
	SaveFunc      func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	DeleteFunc    func(ctx context.Context, db bun.IDB, gameID uuid.UUID) error
	DeleteAllFunc func(ctx context.Context, db bun.IDB) error
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace: []string{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) GetActive(ctx context.Context, db bun.IDB) (*gamedb.Game, error) {
	f.record("GetActive")
	if f.GetActiveFunc != nil {
		return f.GetActiveFunc(ctx, db)
	}
	if f.stored == nil {
		return nil, gamedb.ErrNotFound
	}
	return f.stored, nil
}

func (f *FakeGameRepo) Save(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Save")
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, db, game)
	}
	f.stored = game
	return nil
}

func (f *FakeGameRepo) Delete(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, gameID)
	}
	if f.stored != nil && f.stored.ID == gameID {
		f.stored = nil
	}
	return nil
}

func (f *FakeGameRepo) DeleteAll(ctx context.Context, db bun.IDB) error {
	f.record("DeleteAll")
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx, db)
	}
	f.stored = nil
	return nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGameRepo) Stored() *gamedb.Game {
	return f.stored
}

// Ensure the fake actually satisfies the interface
var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Event Bus
// ------------------------

type PublishedEvent struct {
	Topic   string
	Payload any
}

type FakeEventBus struct {
	mu        sync.Mutex
	published []PublishedEvent

	PublishFunc func(ctx context.Context, topic string, payload any) error
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{}
}

func (f *FakeEventBus) Publish(ctx context.Context, topic string, payload any) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, topic, payload)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, PublishedEvent{Topic: topic, Payload: payload})
	return nil
}

func (f *FakeEventBus) Subscriber() message.Subscriber {
	return nil
}

func (f *FakeEventBus) Close() error {
	return nil
}

// Ensure the fake actually satisfies the interface
var _ eventbus.EventBus = (*FakeEventBus)(nil)

func (f *FakeEventBus) Published() []PublishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PublishedEvent, len(f.published))
	copy(out, f.published)
	return out
}

package sequence

import (
	"context"
	"fmt"
	"sync"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/errcodes"
)

type CounterStore interface {
	// LoadCounter возвращает found == false, если счётчик ещё не сохранялся.
	LoadCounter(ctx context.Context) (counter entity.SequenceCounter, found bool, err error)
	SaveCounter(ctx context.Context, counter entity.SequenceCounter) error
}

// Generator выдаёт уникальные упорядоченные идентификаторы сделок вида
// "#A7342". Продвинутый счётчик становится долговечным до выдачи id, поэтому
// после рестарта уже выданный id повториться не может.
type Generator struct {
	store CounterStore

	mu      sync.Mutex
	counter entity.SequenceCounter
}

func NewGenerator(ctx context.Context, store CounterStore) (*Generator, error) {
	counter, found, err := store.LoadCounter(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadCounter: %w", err)
	}

	if !found {
		counter = entity.SeedSequenceCounter()
	}

	if err := counter.Validate(); err != nil {
		return nil, fmt.Errorf("counter.Validate: %w", err)
	}

	return &Generator{store: store, counter: counter}, nil
}

func (g *Generator) Next(ctx context.Context) (value.DealID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.counter.DealID()
	advanced := g.counter.Advanced()

	if err := g.store.SaveCounter(ctx, advanced); err != nil {
		return "", domain.WrapError(err, errcodes.InternalServerError, "failed to persist sequence counter")
	}

	g.counter = advanced

	return id, nil
}

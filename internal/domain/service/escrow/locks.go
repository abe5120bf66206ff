package escrow

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/value"
)

// Ключи сериализации: каждая сделка и каждый участник — отдельная единица.
func dealKey(id value.DealID) string {
	return "deal/" + id.String()
}

func partyKey(id value.PartyID) string {
	return "party/" + id.String()
}

// keyedLocks — взаимное исключение по ключу с таймаутом взятия. Ключи всегда
// берутся в лексикографическом порядке, чтобы встречные операции над одной и
// той же парой единиц не взаимоблокировались.
type keyedLocks struct {
	timeout time.Duration

	mu   sync.Mutex
	keys map[string]chan struct{}
}

func newKeyedLocks(timeout time.Duration) *keyedLocks {
	return &keyedLocks{
		timeout: timeout,
		keys:    make(map[string]chan struct{}),
	}
}

func (l *keyedLocks) channel(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}

	return ch
}

// acquire возвращает функцию освобождения. Контекст проверяется только до
// взятия: начатая операция леджера не отменяется.
func (l *keyedLocks) acquire(ctx context.Context, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(sorted))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range sorted {
		ch := l.channel(key)

		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-timer.C:
			release()
			return nil, domain.NewContentionError(keys...)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("lock acquisition: %w", ctx.Err())
		}
	}

	return release, nil
}

package reward

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

type reservation struct {
	itemID   string
	issuedAt time.Time
}

// reservationBook tracks issued tokens so each result is committed at most once.
// Expiry is judged against the engine clock; the LRU's own TTL only evicts
// abandoned entries. Consumed tokens are remembered for the same TTL to tell
// a replay from an unknown token.
type reservationBook struct {
	ttl      time.Duration
	pending  *expirable.LRU[string, reservation]
	consumed *expirable.LRU[string, struct{}]
}

func newReservationBook(capacity int, ttl time.Duration) *reservationBook {
	return &reservationBook{
		ttl:      ttl,
		pending:  expirable.NewLRU[string, reservation](capacity, nil, ttl),
		consumed: expirable.NewLRU[string, struct{}](capacity, nil, ttl),
	}
}

func (b *reservationBook) issue(itemID string, now time.Time) string {
	token := uuid.NewString()
	b.pending.Add(token, reservation{itemID: itemID, issuedAt: now})
	return token
}

func (b *reservationBook) consume(token, itemID string, now time.Time) error {
	if token == "" {
		return domain.ErrReservationUnknown
	}
	if b.consumed.Contains(token) {
		return domain.ErrReservationConsumed
	}
	r, ok := b.pending.Get(token)
	if !ok || r.itemID != itemID {
		return domain.ErrReservationUnknown
	}
	if now.Sub(r.issuedAt) > b.ttl {
		b.pending.Remove(token)
		return domain.ErrReservationUnknown
	}
	b.pending.Remove(token)
	b.consumed.Add(token, struct{}{})
	return nil
}

func (b *reservationBook) release(token string) bool {
	return b.pending.Remove(token)
}

func (b *reservationBook) pendingCount() int {
	return b.pending.Len()
}

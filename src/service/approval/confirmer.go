package approval

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// PendingConfirmation is one requirement waiting on a user decision.
type PendingConfirmation struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type pendingEntry struct {
	req      Requirement
	decision chan bool
}

// PromptConfirmer queues requirements until an out-of-band decision arrives,
// typically through the HTTP API. Confirm blocks; there is no timeout, only
// context cancellation.
type PromptConfirmer struct {
	mu      sync.Mutex
	nextID  int64
	pending map[int64]*pendingEntry
}

func NewPromptConfirmer() *PromptConfirmer {
	return &PromptConfirmer{pending: make(map[int64]*pendingEntry)}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, req Requirement) (bool, error) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	entry := &pendingEntry{req: req, decision: make(chan bool, 1)}
	p.pending[id] = entry
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	select {
	case approved := <-entry.decision:
		return approved, nil
	case <-ctx.Done():
		return false, errors.Wrap(ctx.Err(), "confirmation abandoned")
	}
}

// Pending lists the confirmations currently waiting on a decision.
func (p *PromptConfirmer) Pending() []PendingConfirmation {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PendingConfirmation, 0, len(p.pending))
	for id, entry := range p.pending {
		out = append(out, PendingConfirmation{ID: id, Description: entry.req.Describe()})
	}
	return out
}

// Decide resolves a pending confirmation by id.
func (p *PromptConfirmer) Decide(id int64, approved bool) error {
	p.mu.Lock()
	entry, ok := p.pending[id]
	p.mu.Unlock()
	if !ok {
		return errors.Errorf("no pending confirmation %d", id)
	}
	entry.decision <- approved
	return nil
}

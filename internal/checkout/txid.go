package checkout

import (
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/clock"
)

// TxIDSource issues transaction identifiers that are unique for the process
// lifetime and strictly increasing, so sales log append order doubles as
// chronological order.
type TxIDSource struct {
	mu   sync.Mutex
	clk  clock.Clock
	last int64
}

func NewTxIDSource(clk clock.Clock) *TxIDSource {
	return &TxIDSource{clk: clk}
}

// Next returns the next transaction id. If the clock reading does not move
// past the previous one (coarse clocks, fixed test clocks) it is bumped.
func (g *TxIDSource) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clk.Now().UnixNano()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return fmt.Sprintf("TX%d", now)
}

package helpchan

import (
	"context"
	"sync/atomic"
	"time"

	"go-chatmod/internal/logging"
)

// Poller runs the staleness scan on a fixed interval. It is started and
// stopped by administrator command and on setup/teardown; the manager's
// own in-flight guard keeps overlapping polls out.
type Poller struct {
	manager  *Manager
	interval time.Duration
	running  uint32
	stop     chan struct{}
}

func NewPoller(manager *Manager, interval time.Duration) *Poller {
	return &Poller{manager: manager, interval: interval}
}

func (p *Poller) Start() {
	if !atomic.CompareAndSwapUint32(&p.running, 0, 1) {
		return
	}
	p.stop = make(chan struct{})
	go p.loop(p.stop)
	logging.Info("guild %s: stale poller started (every %s)", p.manager.GuildID(), p.interval)
}

func (p *Poller) Stop() {
	if !atomic.CompareAndSwapUint32(&p.running, 1, 0) {
		return
	}
	close(p.stop)
	logging.Info("guild %s: stale poller stopped", p.manager.GuildID())
}

func (p *Poller) Running() bool {
	return atomic.LoadUint32(&p.running) == 1
}

func (p *Poller) loop(stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := p.manager.Poll(context.Background()); err != nil {
				logging.Warn("guild %s: scheduled poll failed: %v", p.manager.GuildID(), err)
			}
		}
	}
}

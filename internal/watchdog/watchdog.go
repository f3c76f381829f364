package watchdog

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"go-chatmod/internal/ingest"
	"go-chatmod/internal/logging"
	"go-chatmod/internal/metrics"

	"github.com/shirou/gopsutil/v3/process"
)

// Watchdog periodically samples process health: ingest queue depth,
// dropped-event growth, goroutine count, and resident memory. It only
// warns; recovery is an operator concern.
type Watchdog struct {
	queue         *ingest.Queue
	checkInterval time.Duration
	maxQueueDepth int
	maxRSSBytes   uint64
	running       uint32
	stop          chan struct{}

	lastDropped uint64
}

func NewWatchdog(queue *ingest.Queue, checkInterval time.Duration, maxQueueDepth, maxRSSMegabytes int) *Watchdog {
	return &Watchdog{
		queue:         queue,
		checkInterval: checkInterval,
		maxQueueDepth: maxQueueDepth,
		maxRSSBytes:   uint64(maxRSSMegabytes) * 1024 * 1024,
	}
}

func (w *Watchdog) Start() {
	if !atomic.CompareAndSwapUint32(&w.running, 0, 1) {
		return
	}
	w.stop = make(chan struct{})
	go w.monitorLoop(w.stop)
	logging.Info("Watchdog started (interval: %v)", w.checkInterval)
}

func (w *Watchdog) Stop() {
	if !atomic.CompareAndSwapUint32(&w.running, 1, 0) {
		return
	}
	close(w.stop)
}

func (w *Watchdog) Running() bool {
	return atomic.LoadUint32(&w.running) == 1
}

func (w *Watchdog) monitorLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watchdog) check() {
	depth := w.queue.Depth()
	if depth > w.maxQueueDepth {
		logging.Warn("Watchdog: ingest queue depth %d exceeds %d (capacity %d)",
			depth, w.maxQueueDepth, w.queue.Capacity())
	}

	dropped := metrics.GetRegistry().EventsDroppedCount()
	if delta := dropped - w.lastDropped; delta > 0 {
		logging.Warn("Watchdog: %d event(s) dropped since last check (%d total)", delta, dropped)
	}
	w.lastDropped = dropped

	if w.maxRSSBytes > 0 {
		if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if memInfo, err := proc.MemoryInfo(); err == nil && memInfo.RSS > w.maxRSSBytes {
				logging.Warn("Watchdog: RSS %d MB exceeds limit %d MB",
					memInfo.RSS/(1024*1024), w.maxRSSBytes/(1024*1024))
			}
		}
	}

	goroutines := runtime.NumGoroutine()
	if goroutines > 1000 {
		logging.Warn("Watchdog: %d goroutines running", goroutines)
	}

	logging.Debug("Watchdog: queue=%d/%d goroutines=%d dropped=%d",
		depth, w.queue.Capacity(), goroutines, dropped)
}

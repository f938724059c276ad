package traitswap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oriumgames/traitswap/store"
)

// persister writes registry snapshots to a store off the event goroutines.
// Change signals are coalesced: any number of Notify calls between two saves
// result in a single save of the latest state.
type persister struct {
	store       store.Store
	snapshot    func() store.Snapshot
	saveTimeout time.Duration
	log         *slog.Logger

	notif  chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

func newPersister(s store.Store, snapshot func() store.Snapshot, saveTimeout time.Duration, log *slog.Logger) *persister {
	if saveTimeout <= 0 {
		saveTimeout = 5 * time.Second
	}
	return &persister{
		store:       s,
		snapshot:    snapshot,
		saveTimeout: saveTimeout,
		log:         log,
		notif:       make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background flush loop.
func (p *persister) Start() {
	p.startOnce.Do(func() {
		go p.loop()
	})
}

// Notify requests a flush. It never blocks.
func (p *persister) Notify() {
	select {
	case p.notif <- struct{}{}:
	default:
	}
}

func (p *persister) loop() {
	defer close(p.doneCh)
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.notif:
			ctx, cancel := context.WithTimeout(context.Background(), p.saveTimeout)
			if err := p.save(ctx); err != nil {
				p.log.Warn("traitswap: failed to persist traits", "error", err)
			}
			cancel()
		}
	}
}

func (p *persister) save(ctx context.Context) error {
	snap := p.snapshot()
	if err := p.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save %d traits: %w", len(snap), err)
	}
	return nil
}

// Close stops the flush loop and performs a final synchronous save.
func (p *persister) Close(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.startOnce.Do(func() { close(p.doneCh) })
		<-p.doneCh
		err = p.save(ctx)
	})
	return err
}

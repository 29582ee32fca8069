package controller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller samples joint snapshots from the controller at a fixed interval
// and hands them to a sink, typically the websocket hub.
type Poller struct {
	client   *Client
	unitID   uint8
	interval time.Duration
	logger   *zap.Logger
	sink     func(*Snapshot)

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex

	latest *Snapshot
}

func NewPoller(client *Client, unitID uint8, interval time.Duration, sink func(*Snapshot), logger *zap.Logger) *Poller {
	return &Poller{
		client:   client,
		unitID:   unitID,
		interval: interval,
		sink:     sink,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins cyclic polling.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.stopChan = make(chan struct{}) // fresh channel, Stop closes the old one
	p.running = true
	p.wg.Add(1)

	go p.pollLoop()

	p.logger.Info("Controller poller started",
		zap.Uint8("unit_id", p.unitID),
		zap.Duration("interval", p.interval))

	return nil
}

// Stop ends the polling loop and waits for it to drain.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.logger.Info("Controller poller stopped", zap.Uint8("unit_id", p.unitID))
}

func (p *Poller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval/2)
	defer cancel()

	snap, err := p.client.ReadJointSnapshot(ctx, p.unitID)
	if err != nil {
		p.logger.Error("Joint snapshot poll failed",
			zap.Uint8("unit_id", p.unitID),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()

	if p.sink != nil {
		p.sink(snap)
	}
}

// Latest returns the most recent snapshot, or nil before the first poll.
func (p *Poller) Latest() *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// IsRunning reports whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

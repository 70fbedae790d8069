package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is any backend that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Sizer reports how many entries the residue journal holds.
type Sizer interface {
	Size() (int, error)
}

// Monitor polls the document store, the optional cache and the journal in the background.
type Monitor struct {
	storeName string
	store     Pinger
	cache     Pinger
	journal   Sizer

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New builds a monitor. cache and journal may be nil.
func New(storeName string, store Pinger, cache Pinger, journal Sizer, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		storeName: storeName,
		store:     store,
		cache:     cache,
		journal:   journal,
		interval:  interval,
		stopCh:    make(chan struct{}),
		logger:    logger,
	}
}

func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the document store answered the last ping.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes every dependency once and stores the result.
func (m *Monitor) Refresh() {
	status := Status{
		Store:     m.ping(m.storeName, m.store, 3*time.Second),
		LastCheck: time.Now(),
	}
	if m.cache != nil {
		cache := m.ping("redis", m.cache, 2*time.Second)
		status.Cache = &cache
	}
	status.Journal, status.JournalSize = m.checkJournal()

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if !prev.LastCheck.IsZero() && prev.Store.Online != status.Store.Online {
		m.logger.Warn("store availability changed",
			zap.String("store", m.storeName),
			zap.Bool("online", status.Store.Online))
	}
}

func (m *Monitor) ping(name string, p Pinger, timeout time.Duration) Check {
	check := Check{Name: name}
	if p == nil {
		check.Error = "not configured"
		return check
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		check.Error = err.Error()
		return check
	}
	check.Online = true
	return check
}

func (m *Monitor) checkJournal() (bool, int) {
	if m.journal == nil {
		return false, 0
	}
	size, err := m.journal.Size()
	if err != nil {
		m.logger.Warn("journal size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}

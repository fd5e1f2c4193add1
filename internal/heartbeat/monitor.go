// Package heartbeat keeps a connection honest: it emits a beat at a fixed pace and flags the
// peer unreachable once nothing has been heard from it for longer than the timeout.
package heartbeat

import (
	"sync"
	"time"
)

const (
	DefaultBeatInterval  = 1000 * time.Millisecond
	DefaultCheckInterval = 2000 * time.Millisecond
	DefaultTimeout       = 3000 * time.Millisecond
)

// Config holds the monitor timings. Zero fields take the defaults.
type Config struct {
	BeatInterval  time.Duration
	CheckInterval time.Duration
	Timeout       time.Duration
	// Now is the clock; tests replace it.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.BeatInterval <= 0 {
		c.BeatInterval = DefaultBeatInterval
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Monitor runs the beat emitter and the liveness checker of one connection.
type Monitor struct {
	cfg           Config
	onUnreachable func()

	mu       sync.Mutex
	send     func() error
	lastBeat time.Time
	flagged  bool

	stopOnce sync.Once
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New builds a monitor. onUnreachable is called at most once, from the checker goroutine.
func New(cfg Config, onUnreachable func()) *Monitor {
	cfg = cfg.withDefaults()
	return &Monitor{
		cfg:           cfg,
		onUnreachable: onUnreachable,
		lastBeat:      cfg.Now(),
		quit:          make(chan struct{}),
	}
}

// Attach sets the function used to emit beats. Beats are skipped until one is attached.
func (m *Monitor) Attach(send func() error) {
	m.mu.Lock()
	m.send = send
	m.mu.Unlock()
}

// Beat records that something was received from the peer.
func (m *Monitor) Beat() {
	m.mu.Lock()
	m.lastBeat = m.cfg.Now()
	m.mu.Unlock()
}

// LastBeat returns the time the peer was last heard from.
func (m *Monitor) LastBeat() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBeat
}

// Start launches the emitter and checker goroutines.
func (m *Monitor) Start() {
	m.wg.Add(2)
	go m.loop(m.cfg.BeatInterval, m.emit)
	go m.loop(m.cfg.CheckInterval, func() {
		if m.Check() {
			m.Stop()
		}
	})
}

func (m *Monitor) loop(every time.Duration, fn func()) {
	defer m.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			fn()
		}
	}
}

func (m *Monitor) emit() {
	m.mu.Lock()
	send := m.send
	m.mu.Unlock()
	if send == nil {
		return
	}
	_ = send()
}

// Check runs one liveness poll. It returns true the first time the peer is found silent
// for longer than the timeout, after calling the unreachable callback.
func (m *Monitor) Check() bool {
	m.mu.Lock()
	if m.flagged || m.cfg.Now().Sub(m.lastBeat) <= m.cfg.Timeout {
		m.mu.Unlock()
		return false
	}
	m.flagged = true
	m.mu.Unlock()

	if m.onUnreachable != nil {
		m.onUnreachable()
	}
	return true
}

// Unreachable reports whether the peer has been flagged.
func (m *Monitor) Unreachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flagged
}

// Stop signals both goroutines to exit. It is safe to call more than once and from the
// monitor's own goroutines.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.quit) })
}

// Close stops the monitor and waits for both goroutines to exit. It must not be called
// from the unreachable callback.
func (m *Monitor) Close() {
	m.Stop()
	m.wg.Wait()
}

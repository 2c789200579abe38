// Package countdown implements the resend timer of the OTP screen: a whole
// second countdown that expires exactly once per start.
package countdown

import (
	"sync"
	"time"
)

// DefaultWindow is the resend window in seconds.
const DefaultWindow = 30

// State is a snapshot of the timer. Expired flips to true exactly when
// Remaining reaches 0 and stays true until the next Start.
type State struct {
	Remaining int
	Expired   bool
}

// Scheduler calls fn every d until the returned stop function is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler drives ticks from a time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

// Timer counts down from a window in one second steps. With a nil
// scheduler the owner calls Tick itself.
type Timer struct {
	window    int
	scheduler Scheduler

	mu       sync.Mutex
	state    State
	running  bool
	gen      uint64
	stop     func()
	onChange func(State)
}

// New returns a stopped timer showing the full window. A window below 1
// uses DefaultWindow.
func New(window int, scheduler Scheduler) *Timer {
	if window < 1 {
		window = DefaultWindow
	}
	return &Timer{
		window:    window,
		scheduler: scheduler,
		state:     State{Remaining: window},
	}
}

// OnChange registers fn, called after every state change outside the lock.
func (t *Timer) OnChange(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Start resets to the full window. Any previous schedule is stopped and its
// pending ticks are ignored.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	t.gen++
	gen := t.gen
	t.state = State{Remaining: t.window}
	t.running = true

	if t.scheduler != nil {
		t.stop = t.scheduler.Every(time.Second, func() { t.tick(gen) })
	}
	st, fn := t.state, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// Restart is Start; used after a resend.
func (t *Timer) Restart() { t.Start() }

// Tick moves the countdown one second forward. It does nothing once the
// timer has expired or been stopped.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.tick(gen)
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running || t.state.Expired {
		t.mu.Unlock()
		return
	}

	t.state.Remaining--
	if t.state.Remaining <= 0 {
		t.state = State{Remaining: 0, Expired: true}
		t.running = false
		if t.stop != nil {
			t.stop()
			t.stop = nil
		}
	}
	st, fn := t.state, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// Stop halts the timer; no further state change happens until Start.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.running = false
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Running reports whether a countdown is in progress.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

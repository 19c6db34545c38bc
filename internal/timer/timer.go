// Package timer holds the focus-timer session state machine: work and break
// intervals, the rotating completed-work counter, and the user-configured
// durations persisted to local storage.
package timer

import (
	"encoding/json"
	"fmt"

	"github.com/beocaca/pomo.do/internal/storage"
)

// Mode enumerates the three interval kinds. The machine cycles through them
// indefinitely; there is no terminal state.
type Mode int

const (
	ModeWork Mode = iota
	ModeShortBreak
	ModeLongBreak
)

func (m Mode) String() string {
	switch m {
	case ModeWork:
		return "work"
	case ModeShortBreak:
		return "short break"
	case ModeLongBreak:
		return "long break"
	}
	return "unknown"
}

// StorageKey is where the duration override lives in local storage. Absence
// of the key means "use the built-in default".
const StorageKey = "timer"

// A long break follows every 4th completed work interval.
const workIntervalsPerCycle = 4

// Config is a named set of interval lengths in minutes. JSON field names
// match the persisted wire format.
type Config struct {
	Name       string `json:"name"`
	Work       int    `json:"pomo"`
	ShortBreak int    `json:"short_break"`
	LongBreak  int    `json:"long_break"`
}

func DefaultConfig() Config {
	return Config{Name: "Local Default", Work: 25, ShortBreak: 5, LongBreak: 15}
}

func (c Config) Validate() error {
	if c.Work <= 0 || c.ShortBreak <= 0 || c.LongBreak <= 0 {
		return fmt.Errorf("timer config %q: durations must be positive", c.Name)
	}
	return nil
}

// Minutes returns the configured length of a mode's interval.
func (c Config) Minutes(m Mode) int {
	switch m {
	case ModeShortBreak:
		return c.ShortBreak
	case ModeLongBreak:
		return c.LongBreak
	default:
		return c.Work
	}
}

// CompletionListener receives exactly one call per completed work interval.
// Break completions do not notify.
type CompletionListener interface {
	WorkIntervalCompleted()
}

// Session is the timer state machine. It owns no clock: an external
// scheduler calls Tick once per second and OnIntervalComplete when the
// countdown hits zero.
type Session struct {
	kv       storage.KV
	listener CompletionListener

	config    Config
	mode      Mode
	remaining int // seconds left in the active interval
	completed int // work intervals finished in the current cycle
	running   bool

	autoStartWork  bool
	autoStartBreak bool
}

// NewSession builds a session seeded from the persisted config override, or
// from the built-in default when no valid override is stored.
func NewSession(kv storage.KV, listener CompletionListener) *Session {
	config := DefaultConfig()
	if kv != nil {
		if raw, ok, err := kv.Get(StorageKey); err == nil && ok {
			var stored Config
			if json.Unmarshal([]byte(raw), &stored) == nil && stored.Validate() == nil {
				config = stored
			}
		}
	}
	return &Session{
		kv:        kv,
		listener:  listener,
		config:    config,
		mode:      ModeWork,
		remaining: config.Work * 60,
	}
}

// SetAutoStart configures whether the next interval starts running on its
// own after a completion. Sourced from the user profile; both false when
// unauthenticated.
func (s *Session) SetAutoStart(work, breaks bool) {
	s.autoStartWork = work
	s.autoStartBreak = breaks
}

// LoadConfig replaces the durations used the next time each mode is entered
// and persists the override. The running countdown is not touched. Invalid
// durations reject before any mutation.
func (s *Session) LoadConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal timer config: %w", err)
	}
	if s.kv != nil {
		if err := s.kv.Set(StorageKey, string(raw)); err != nil {
			return fmt.Errorf("persist timer config: %w", err)
		}
	}
	s.config = config
	return nil
}

// ResetToDefault restores the built-in durations, rewinds to a fresh work
// interval, and clears the persisted override.
func (s *Session) ResetToDefault() error {
	if s.kv != nil {
		if err := s.kv.Delete(StorageKey); err != nil {
			return fmt.Errorf("clear timer config: %w", err)
		}
	}
	s.config = DefaultConfig()
	s.SetMode(ModeWork)
	return nil
}

// SetMode switches the active mode and resets the countdown to that mode's
// configured duration.
func (s *Session) SetMode(m Mode) {
	s.mode = m
	s.remaining = s.config.Minutes(m) * 60
}

// Tick advances the countdown by one second. Ticks delivered while the
// session is not running are ignored; the countdown never goes below zero.
func (s *Session) Tick() {
	if !s.running {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
}

// OnIntervalComplete advances the machine when the countdown reaches zero.
// Finishing a break always returns to work. Finishing a work interval
// notifies the listener once, then enters a short break, or the long break
// on every 4th completion.
func (s *Session) OnIntervalComplete() {
	switch s.mode {
	case ModeShortBreak, ModeLongBreak:
		s.SetMode(ModeWork)
		s.running = s.autoStartWork

	case ModeWork:
		if s.listener != nil {
			s.listener.WorkIntervalCompleted()
		}
		next := ModeShortBreak
		if s.completed == workIntervalsPerCycle-1 {
			next = ModeLongBreak
			s.completed = 0
		} else {
			s.completed++
		}
		s.SetMode(next)
		s.running = s.autoStartBreak
	}
}

func (s *Session) ToggleRunning() {
	s.running = !s.running
}

func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) Running() bool  { return s.running }
func (s *Session) Remaining() int { return s.remaining }
func (s *Session) Config() Config { return s.config }

// CompletedWorkIntervals reports progress through the current 4-interval
// cycle; it resets to zero when the long break is entered.
func (s *Session) CompletedWorkIntervals() int { return s.completed }

// Display projects the countdown as a zero-padded mm:ss label. It is always
// recomputed from the remaining seconds, never stored.
func (s *Session) Display() string {
	return fmt.Sprintf("%02d:%02d", s.remaining/60, s.remaining%60)
}

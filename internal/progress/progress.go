// Package progress drives a busy spinner and a progress bar from load
// lifecycle events across several concurrent loads.
package progress

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// Indicator is the visible surface: a spinner and a percentage bar.
type Indicator interface {
	ShowSpinner()
	HideSpinner()
	SetProgress(percent float64)
}

type slotState int

const (
	slotPending slotState = iota
	slotDone
	slotFailed
)

type slot struct {
	fraction float64
	state    slotState
}

// Surface aggregates the progress of n loads into one indicator. Within a
// cycle the reported percentage never decreases. It is not safe for
// concurrent use; drive it from the main loop.
type Surface struct {
	ind      Indicator
	slots    []slot
	percent  float64
	visible  bool
	failures int
	log      *zap.Logger
}

// NewSurface wraps ind.
func NewSurface(ind Indicator) *Surface {
	return &Surface{ind: ind, log: logger.Named("progress")}
}

// Begin starts a cycle of n loads: shows the spinner and resets to 0.
func (s *Surface) Begin(n int) {
	if n < 1 {
		n = 1
	}
	s.slots = make([]slot, n)
	s.percent = 0
	s.failures = 0
	s.visible = true
	s.ind.ShowSpinner()
	s.ind.SetProgress(0)
}

// Update records fraction for slot and publishes the mean over all slots.
func (s *Surface) Update(i int, fraction float64) {
	sl, ok := s.pending(i)
	if !ok {
		return
	}
	fraction = min(max(fraction, 0), 1)
	if fraction <= sl.fraction {
		return
	}
	sl.fraction = fraction
	s.publish()
}

// Complete marks slot i as loaded.
func (s *Surface) Complete(i int) {
	s.finish(i, slotDone, nil)
}

// Fail marks slot i as failed. The error is logged.
func (s *Surface) Fail(i int, err error) {
	s.finish(i, slotFailed, err)
}

// Visible reports whether the spinner is shown.
func (s *Surface) Visible() bool { return s.visible }

// Percent returns the last published percentage.
func (s *Surface) Percent() float64 { return s.percent }

// Failures returns the number of failed slots in the current cycle.
func (s *Surface) Failures() int { return s.failures }

// Done reports whether every slot of the cycle is terminal.
func (s *Surface) Done() bool {
	for _, sl := range s.slots {
		if sl.state == slotPending {
			return false
		}
	}
	return true
}

func (s *Surface) pending(i int) (*slot, bool) {
	if i < 0 || i >= len(s.slots) {
		s.log.Debug("progress for unknown slot", zap.Int("slot", i), zap.Int("slots", len(s.slots)))
		return nil, false
	}
	sl := &s.slots[i]
	return sl, sl.state == slotPending
}

func (s *Surface) finish(i int, state slotState, err error) {
	sl, ok := s.pending(i)
	if !ok {
		return
	}
	sl.state = state
	sl.fraction = 1
	if state == slotFailed {
		s.failures++
		s.log.Warn("load failed", zap.Int("slot", i), zap.Error(err))
	}

	if s.Done() {
		s.percent = 100
		s.ind.SetProgress(100)
		s.visible = false
		s.ind.HideSpinner()
		return
	}
	s.publish()
}

func (s *Surface) publish() {
	var sum float64
	for _, sl := range s.slots {
		sum += sl.fraction
	}
	p := sum / float64(len(s.slots)) * 100
	if p <= s.percent {
		return
	}
	s.percent = p
	s.ind.SetProgress(p)
}

// String is used in log fields.
func (s *Surface) String() string {
	return fmt.Sprintf("%.0f%% (%d slots, visible=%v)", s.percent, len(s.slots), s.visible)
}

// Package viewsync mirrors camera pose between two viewports.
//
// The viewport that most recently reported an interaction is the leader;
// its position, orientation and orbit target are copied onto the other
// viewport on every change notification and again on every Tick.
package viewsync

import (
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// StateIndicator reflects the sync state, e.g. as a toggle colour.
type StateIndicator interface {
	SetSyncState(enabled bool)
}

// View is the part of a viewport the synchronizer needs.
type View interface {
	Camera() *camera.Camera
	Controls() *camera.OrbitControls
}

// ContentView is implemented by views that may be empty. An empty view
// never leads: its pose is not framed on anything.
type ContentView interface {
	HasModel() bool
}

// Synchronizer couples exactly two views. All methods must be called from
// the goroutine that drives the views.
type Synchronizer struct {
	views     [2]View
	indicator StateIndicator
	enabled   bool
	leader    int
	copying   bool
	unsub     [2]func()
	log       *zap.Logger
}

// New subscribes to both views' change notifications. indicator may be nil.
func New(a, b View, enabled bool, indicator StateIndicator) *Synchronizer {
	s := &Synchronizer{
		views:     [2]View{a, b},
		indicator: indicator,
		enabled:   enabled,
		log:       logger.Named("sync"),
	}
	for i := range s.views {
		s.unsub[i] = s.views[i].Controls().OnChange(func() { s.onChange(i) })
	}
	s.updateIndicator()
	return s
}

// Enabled reports the sync state.
func (s *Synchronizer) Enabled() bool { return s.enabled }

// Leader returns the index of the view whose pose is authoritative.
func (s *Synchronizer) Leader() int { return s.leader }

// SetEnabled sets the sync state. No camera moves until the next
// interaction or Tick.
func (s *Synchronizer) SetEnabled(v bool) {
	if s.enabled == v {
		return
	}
	s.enabled = v
	s.log.Info("camera sync toggled", zap.Bool("enabled", v))
	s.updateIndicator()
}

// Toggle flips the sync state and returns the new value.
func (s *Synchronizer) Toggle() bool {
	s.SetEnabled(!s.enabled)
	return s.enabled
}

// Tick copies leader to follower while enabled. Call once per frame.
// When the leader is empty the other view takes over; when both are
// empty nothing is copied.
func (s *Synchronizer) Tick() {
	if !s.enabled {
		return
	}
	if !s.canLead(s.leader) {
		other := 1 - s.leader
		if !s.canLead(other) {
			return
		}
		s.log.Debug("sync leader handed over", zap.Int("from", s.leader), zap.Int("to", other))
		s.leader = other
	}
	s.copyFrom(s.leader)
}

func (s *Synchronizer) canLead(i int) bool {
	if cv, ok := s.views[i].(ContentView); ok {
		return cv.HasModel()
	}
	return true
}

// Close unsubscribes from both views.
func (s *Synchronizer) Close() {
	for i, fn := range s.unsub {
		if fn != nil {
			fn()
			s.unsub[i] = nil
		}
	}
}

func (s *Synchronizer) onChange(i int) {
	if s.copying || !s.canLead(i) {
		return
	}
	s.leader = i
	if s.enabled {
		s.copyFrom(i)
	}
}

// copyFrom mirrors view src onto the other view. Both controls are
// disabled for the duration so the copy cannot trigger a notification.
func (s *Synchronizer) copyFrom(src int) {
	dst := 1 - src
	from, to := s.views[src], s.views[dst]

	s.copying = true
	fromCtl, toCtl := from.Controls(), to.Controls()
	fromOn, toOn := fromCtl.Enabled(), toCtl.Enabled()
	fromCtl.SetEnabled(false)
	toCtl.SetEnabled(false)
	defer func() {
		fromCtl.SetEnabled(fromOn)
		toCtl.SetEnabled(toOn)
		s.copying = false
	}()

	to.Camera().SetPose(from.Camera().Pose())
	toCtl.SetTarget(fromCtl.Target)
}

func (s *Synchronizer) updateIndicator() {
	if s.indicator != nil {
		s.indicator.SetSyncState(s.enabled)
	}
}

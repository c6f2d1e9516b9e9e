package viewsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

type testView struct {
	cam *camera.Camera
	ctl *camera.OrbitControls
}

func (v *testView) Camera() *camera.Camera          { return v.cam }
func (v *testView) Controls() *camera.OrbitControls { return v.ctl }

func newView(pos math.Vec3) *testView {
	cam := camera.New(45, 1, 0.1, 1000)
	cam.Position = pos
	cam.LookAt(math.Vec3{})
	return &testView{cam: cam, ctl: camera.NewOrbitControls(cam, 1, 100)}
}

type recorder struct{ states []bool }

func (r *recorder) SetSyncState(v bool) { r.states = append(r.states, v) }

func assertSynced(t *testing.T, a, b *testView) {
	t.Helper()
	assert.True(t, a.cam.Position.ApproxEqual(b.cam.Position, 1e-5), "positions differ: %+v vs %+v", a.cam.Position, b.cam.Position)
	assert.True(t, a.cam.Orientation.ApproxEqual(b.cam.Orientation, 1e-6), "orientations differ")
	assert.Equal(t, a.ctl.Target, b.ctl.Target)
}

func TestAlternatingInteractionsStaySynced(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{X: 7, Z: 7})
	s := New(a, b, true, nil)
	defer s.Close()

	steps := []struct {
		view  *testView
		index int
		act   func(*camera.OrbitControls)
	}{
		{a, 0, func(c *camera.OrbitControls) { c.Rotate(40, 10) }},
		{b, 1, func(c *camera.OrbitControls) { c.Rotate(-25, 30) }},
		{a, 0, func(c *camera.OrbitControls) { c.Dolly(1) }},
		{b, 1, func(c *camera.OrbitControls) { c.Pan(12, -4) }},
		{a, 0, func(c *camera.OrbitControls) { c.Rotate(5, -60) }},
	}
	for _, st := range steps {
		st.act(st.view.ctl)
		assert.Equal(t, st.index, s.Leader())
		assertSynced(t, a, b)
		s.Tick()
		assertSynced(t, a, b)
	}

	// Controls are re-enabled after each copy.
	assert.True(t, a.ctl.Enabled())
	assert.True(t, b.ctl.Enabled())
}

func TestDisabledSyncLeavesFollowerAlone(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{X: 10})
	s := New(a, b, true, nil)
	defer s.Close()
	s.SetEnabled(false)

	before := b.cam.Pose()
	a.ctl.Rotate(100, 0)
	s.Tick()

	assert.Equal(t, before, b.cam.Pose())
	assert.Equal(t, 0, s.Leader())
}

func TestEnableDoesNotMoveCameras(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{X: 10})
	s := New(a, b, false, nil)
	defer s.Close()

	before := b.cam.Pose()
	s.SetEnabled(true)
	assert.Equal(t, before, b.cam.Pose())

	s.Tick()
	assertSynced(t, a, b)
}

func TestTickFollowsLastInteracted(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{Z: 10})
	s := New(a, b, true, nil)
	defer s.Close()

	b.ctl.Rotate(30, 0)
	require.Equal(t, 1, s.Leader())

	// An external write to the follower is overridden from the leader.
	a.cam.Position = math.Vec3{Y: 50}
	s.Tick()
	assertSynced(t, a, b)
	assert.NotEqual(t, math.Vec3{Y: 50}, a.cam.Position)
}

type emptiableView struct {
	*testView
	loaded bool
}

func (v *emptiableView) HasModel() bool { return v.loaded }

func TestEmptyViewNeverLeads(t *testing.T) {
	a := &emptiableView{testView: newView(math.Vec3{Z: 2})}
	b := &emptiableView{testView: newView(math.Vec3{Z: 8}), loaded: true}
	s := New(a, b, true, nil)
	defer s.Close()
	require.Equal(t, 0, s.Leader())

	framed := b.cam.Pose()
	s.Tick()
	assert.Equal(t, 1, s.Leader(), "leadership moves to the view with a model")
	assert.Equal(t, framed, b.cam.Pose())
	assertSynced(t, a.testView, b.testView)

	// Interacting with the empty view does not take the lead back.
	a.cam.Position = math.Vec3{Z: 3}
	a.ctl.Rotate(20, 0)
	s.Tick()
	assert.Equal(t, 1, s.Leader())
	assert.Equal(t, framed, b.cam.Pose())
}

func TestTickSkipsWhenBothEmpty(t *testing.T) {
	a := &emptiableView{testView: newView(math.Vec3{Z: 4})}
	b := &emptiableView{testView: newView(math.Vec3{X: 6})}
	s := New(a, b, true, nil)
	defer s.Close()

	s.Tick()
	assert.Equal(t, math.Vec3{X: 6}, b.cam.Position)
	assert.Equal(t, math.Vec3{Z: 4}, a.cam.Position)
}

func TestNoFeedbackLoop(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{Z: 10})
	s := New(a, b, true, nil)
	defer s.Close()

	notifications := 0
	b.ctl.OnChange(func() { notifications++ })
	a.ctl.Rotate(10, 10)
	assert.Zero(t, notifications, "mirroring must not emit on the follower")
}

func TestDisabledControlsStayDisabled(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{Z: 10})
	b.ctl.SetEnabled(false)
	s := New(a, b, true, nil)
	defer s.Close()

	a.ctl.Rotate(10, 0)
	assert.False(t, b.ctl.Enabled())
	assertSynced(t, a, b)
}

func TestToggleUpdatesIndicator(t *testing.T) {
	rec := &recorder{}
	s := New(newView(math.Vec3{Z: 10}), newView(math.Vec3{Z: 10}), true, rec)
	defer s.Close()

	assert.False(t, s.Toggle())
	assert.True(t, s.Toggle())
	s.SetEnabled(true)
	assert.Equal(t, []bool{true, false, true}, rec.states)
}

func TestCloseUnsubscribes(t *testing.T) {
	a, b := newView(math.Vec3{Z: 10}), newView(math.Vec3{X: 10})
	s := New(a, b, true, nil)
	s.Close()

	before := b.cam.Pose()
	a.ctl.Rotate(20, 0)
	assert.Equal(t, before, b.cam.Pose())
}

package progress

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type fakeIndicator struct {
	visible  bool
	progress []float64
	calls    []string
}

func (f *fakeIndicator) ShowSpinner() { f.visible = true; f.calls = append(f.calls, "show") }
func (f *fakeIndicator) HideSpinner() { f.visible = false; f.calls = append(f.calls, "hide") }
func (f *fakeIndicator) SetProgress(p float64) {
	f.progress = append(f.progress, p)
}

func assertMonotonic(t *testing.T, ps []float64) {
	t.Helper()
	for i := 1; i < len(ps); i++ {
		if ps[i] < ps[i-1] {
			t.Fatalf("progress decreased at %d: %v", i, ps)
		}
	}
}

func TestSingleLoadLifecycle(t *testing.T) {
	ind := &fakeIndicator{}
	s := NewSurface(ind)

	s.Begin(1)
	assert.True(t, ind.visible)
	s.Update(0, 0.25)
	s.Update(0, 0.5)
	s.Update(0, 0.4) // stale
	s.Complete(0)

	assert.False(t, ind.visible)
	assert.False(t, s.Visible())
	if diff := cmp.Diff([]float64{0, 25, 50, 100}, ind.progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenOnlyAfterBothSlots(t *testing.T) {
	ind := &fakeIndicator{}
	s := NewSurface(ind)

	s.Begin(2)
	s.Update(0, 1)
	s.Complete(0)
	assert.True(t, ind.visible, "spinner must stay until the second load ends")
	assert.Equal(t, 50.0, s.Percent())

	s.Update(1, 0.5)
	assert.Equal(t, 75.0, s.Percent())
	s.Complete(1)

	assert.False(t, ind.visible)
	assert.Equal(t, 100.0, s.Percent())
	assertMonotonic(t, ind.progress)
	assert.Equal(t, []string{"show", "hide"}, ind.calls)
}

func TestHiddenAfterError(t *testing.T) {
	ind := &fakeIndicator{}
	s := NewSurface(ind)

	s.Begin(2)
	s.Update(0, 0.3)
	s.Fail(0, errors.New("404"))
	s.Fail(1, errors.New("timeout"))

	assert.False(t, ind.visible)
	assert.Equal(t, 2, s.Failures())
	assert.Equal(t, 100.0, ind.progress[len(ind.progress)-1])
	assertMonotonic(t, ind.progress)
}

func TestTerminalSlotIgnoresLaterEvents(t *testing.T) {
	ind := &fakeIndicator{}
	s := NewSurface(ind)

	s.Begin(2)
	s.Complete(0)
	s.Fail(0, errors.New("late"))
	s.Update(0, 0.1)
	s.Update(5, 0.9)

	assert.Equal(t, 0, s.Failures())
	assert.True(t, ind.visible)
	assert.False(t, s.Done())
}

func TestBeginResetsCycle(t *testing.T) {
	ind := &fakeIndicator{}
	s := NewSurface(ind)

	s.Begin(1)
	s.Complete(0)
	s.Begin(2)

	assert.True(t, ind.visible)
	assert.Equal(t, 0.0, s.Percent())
	assert.Equal(t, 0.0, ind.progress[len(ind.progress)-1])
	assert.False(t, s.Done())
}

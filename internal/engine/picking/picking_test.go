package picking

import (
	"testing"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

func unitBox(center math.Vec3) math.Box3 {
	h := math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	return math.NewBox3(center.Sub(h), center.Add(h))
}

func TestIntersectBox(t *testing.T) {
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"hit front", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, true, 4.5},
		{"inside returns exit", Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: -1}}, true, 0.5},
		{"behind", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
		{"parallel outside", Ray{Origin: math.Vec3{X: 2, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBox(unitBox(math.Vec3{}))
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && got != tt.wantT {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}

	if _, hit := (Ray{Direction: math.Vec3{Z: -1}}).IntersectBox(math.EmptyBox()); hit {
		t.Error("empty box should never be hit")
	}
}

func TestNearestPicksClosest(t *testing.T) {
	parts := []scene.Part{
		{Name: "far", Bounds: unitBox(math.Vec3{Z: -5})},
		{Name: "near", Bounds: unitBox(math.Vec3{Z: 0})},
		{Name: "aside", Bounds: unitBox(math.Vec3{X: 5})},
	}
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}

	hit, ok := Nearest(r, parts)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Part.Name != "near" {
		t.Errorf("picked %s, want near", hit.Part.Name)
	}
	if !hit.Point.ApproxEqual(math.Vec3{Z: 0.5}, 1e-5) {
		t.Errorf("hit point %+v", hit.Point)
	}

	if _, ok := Nearest(r, nil); ok {
		t.Error("no parts should mean no hit")
	}
}

func TestScreenToRay(t *testing.T) {
	cam := camera.New(60, 2, 0.1, 100)
	cam.Position = math.Vec3{Z: 10}
	cam.LookAt(math.Vec3{})

	r := ScreenToRay(cam, 400, 200, 800, 400)
	if !r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-5) {
		t.Errorf("centre pixel should look straight ahead, got %+v", r.Direction)
	}

	ndcX, ndcY := ScreenToNDC(0, 0, 800, 400)
	if ndcX != -1 || ndcY != 1 {
		t.Errorf("top-left should be (-1, 1), got (%v, %v)", ndcX, ndcY)
	}
}

func TestLabeler(t *testing.T) {
	l := NewLabeler([]string{"", "Scene", "RootNode"}, []string{"Object_"})

	tests := []struct {
		name  string
		want  string
		shown bool
	}{
		{"Humerus_left_bone", "Humerus left bone", true},
		{"Scene", "", false},
		{"RootNode", "", false},
		{"Object_12", "", false},
		{"", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, shown := l.Label(tt.name)
			if got != tt.want || shown != tt.shown {
				t.Errorf("Label(%q) = (%q, %v), want (%q, %v)", tt.name, got, shown, tt.want, tt.shown)
			}
		})
	}
}

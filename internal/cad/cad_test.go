package cad

import (
	"math"
	"strings"
	"testing"
)

func TestExtrude(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(d *Document) *Sketch
		height     float64
		wantVolume float64
		wantErr    string
	}{
		{
			name: "circle_profile",
			setup: func(d *Document) *Sketch {
				s := d.NewSketch(PlaneXY)
				s.Circle(0, 0, 1)
				return s
			},
			height:     2,
			wantVolume: 2 * math.Pi,
		},
		{
			name: "rect_profile",
			setup: func(d *Document) *Sketch {
				s := d.NewSketch(PlaneXY)
				s.Rect(0, 0, MM(10), MM(10))
				return s
			},
			height:     MM(10),
			wantVolume: 1,
		},
		{
			name: "open_curves_only",
			setup: func(d *Document) *Sketch {
				s := d.NewSketch(PlaneXY)
				s.Line(0, 0, 1, 1)
				return s
			},
			height:  1,
			wantErr: "no closed profile",
		},
		{
			name:    "nil_sketch",
			setup:   func(d *Document) *Sketch { return nil },
			height:  1,
			wantErr: "sketch is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{}
			s := tt.setup(d)

			body, err := d.Extrude(s, tt.height)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(body.Volume-tt.wantVolume) > 1e-9 {
				t.Errorf("volume = %v, want %v", body.Volume, tt.wantVolume)
			}
		})
	}
}

func TestRevolve(t *testing.T) {
	tests := []struct {
		name    string
		circle  [3]float64 // cx, cy, r
		axis    Axis
		angle   float64
		wantErr string
	}{
		{
			name:   "axis_clear_of_profile",
			circle: [3]float64{3, 0, 1},
			axis:   Axis{X1: 0, Y1: -1, X2: 0, Y2: 1},
			angle:  360,
		},
		{
			name:    "axis_tangent_to_profile",
			circle:  [3]float64{1, 0, 1},
			axis:    Axis{X1: 0, Y1: -1, X2: 0, Y2: 1},
			angle:   360,
			wantErr: "ASM_PATH_TANGENT",
		},
		{
			name:    "axis_crosses_profile",
			circle:  [3]float64{0.5, 0, 1},
			axis:    Axis{X1: 0, Y1: -1, X2: 0, Y2: 1},
			angle:   360,
			wantErr: "intersects the profile",
		},
		{
			name:    "zero_angle",
			circle:  [3]float64{3, 0, 1},
			axis:    Axis{X1: 0, Y1: -1, X2: 0, Y2: 1},
			angle:   0,
			wantErr: "greater than zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{}
			s := d.NewSketch(PlaneXZ)
			s.Circle(tt.circle[0], tt.circle[1], tt.circle[2])

			body, err := d.Revolve(s, tt.axis, tt.angle)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body.Volume <= 0 {
				t.Errorf("volume = %v, want > 0", body.Volume)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	d := &Document{}

	s1 := d.NewSketch(PlaneXY)
	s1.Rect(0, 0, 2, 2)
	a, err := d.Extrude(s1, 2)
	if err != nil {
		t.Fatal(err)
	}

	s2 := d.NewSketch(PlaneXY)
	s2.Rect(0, 0, 1, 1)
	b, err := d.Extrude(s2, 1)
	if err != nil {
		t.Fatal(err)
	}

	merged, err := d.Combine(a, b, OpCut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Volume != 7 {
		t.Errorf("volume = %v, want 7", merged.Volume)
	}
	if got := len(d.Bodies()); got != 1 {
		t.Errorf("bodies = %d, want 1", got)
	}

	if _, err := d.Combine(merged, nil, OpJoin); err == nil ||
		!strings.Contains(err.Error(), "body does not exist") {
		t.Errorf("nil tool err = %v, want body-does-not-exist", err)
	}
}

func TestActiveDocument(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	d1 := Active()
	d2 := Active()
	if d1 != d2 {
		t.Error("Active should return the same document within a session")
	}

	Reset()
	if Active() == d1 {
		t.Error("Reset should discard the active document")
	}
}

// Package cad is the restricted document binding exposed to generated
// scripts. It models the small slice of a host CAD object model the
// assistant's scripts touch: sketches with closed profiles, extrude, revolve
// and boolean combine, with the same failure modes the real operations have.
package cad

import (
	"fmt"
	"math"
	"sync"
)

// Context is the argument passed to a script's Run entry point. The host
// invokes Run with a nil Context; scripts obtain the document through
// Active instead.
type Context struct{}

type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneXZ Plane = "XZ"
	PlaneYZ Plane = "YZ"
)

// Dimensions are centimeters internally. MM and CM make the unit explicit at
// the call site; a bare literal is accepted but flagged by script validation.
func MM(v float64) float64 { return v / 10 }
func CM(v float64) float64 { return v }

type BoolOp string

const (
	OpJoin      BoolOp = "join"
	OpCut       BoolOp = "cut"
	OpIntersect BoolOp = "intersect"
)

type profile struct {
	// closed profiles carry an area; circles also keep center/radius so
	// revolve can detect tangent axes
	area     float64
	isCircle bool
	cx, cy   float64
	r        float64
}

type Sketch struct {
	plane    Plane
	profiles []profile
	curves   int
}

// Circle adds a closed circular profile. cx, cy, r are centimeters.
func (s *Sketch) Circle(cx, cy, r float64) {
	s.profiles = append(s.profiles, profile{
		area:     math.Pi * r * r,
		isCircle: true,
		cx:       cx,
		cy:       cy,
		r:        r,
	})
}

// Rect adds a closed rectangular profile anchored at x, y.
func (s *Sketch) Rect(x, y, w, h float64) {
	s.profiles = append(s.profiles, profile{area: math.Abs(w * h), cx: x + w/2, cy: y + h/2})
}

// Line adds an open curve. Open curves never form a profile on their own.
func (s *Sketch) Line(x1, y1, x2, y2 float64) {
	s.curves++
}

func (s *Sketch) Profiles() int {
	return len(s.profiles)
}

// Axis is a revolution axis through two sketch points.
type Axis struct {
	X1, Y1 float64
	X2, Y2 float64
}

type Body struct {
	Name   string
	Volume float64
}

type Document struct {
	mu       sync.Mutex
	sketches []*Sketch
	bodies   []*Body
}

func (d *Document) NewSketch(plane Plane) *Sketch {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &Sketch{plane: plane}
	d.sketches = append(d.sketches, s)
	return s
}

// Extrude creates a body from the sketch's first profile. height is
// centimeters; negative heights extrude in the opposite direction.
func (d *Document) Extrude(s *Sketch, height float64) (*Body, error) {
	if s == nil {
		return nil, fmt.Errorf("extrude failed: sketch is nil")
	}
	if len(s.profiles) == 0 {
		return nil, fmt.Errorf("extrude failed: sketch contains no closed profile")
	}

	p := s.profiles[0]
	body := d.addBody(p.area * math.Abs(height))
	return body, nil
}

// Revolve sweeps the sketch's first profile around axis. The axis must not
// touch or cross the profile boundary.
func (d *Document) Revolve(s *Sketch, axis Axis, angleDeg float64) (*Body, error) {
	if s == nil {
		return nil, fmt.Errorf("revolve failed: sketch is nil")
	}
	if len(s.profiles) == 0 {
		return nil, fmt.Errorf("revolve failed: sketch contains no closed profile")
	}
	if angleDeg <= 0 {
		return nil, fmt.Errorf("revolve failed: revolution angle must be greater than zero")
	}

	p := s.profiles[0]
	if p.isCircle {
		dist := pointLineDistance(p.cx, p.cy, axis)
		const eps = 1e-9
		if math.Abs(dist-p.r) < eps {
			return nil, fmt.Errorf("revolve failed: ASM_PATH_TANGENT: the axis is tangent to the profile")
		}
		if dist < p.r {
			return nil, fmt.Errorf("revolve failed: the axis intersects the profile boundary")
		}

		// Pappus: V = 2*pi*R*A scaled by the swept angle
		sweep := angleDeg / 360 * 2 * math.Pi
		body := d.addBody(sweep * dist * p.area)
		return body, nil
	}

	sweep := angleDeg / 360 * 2 * math.Pi
	body := d.addBody(sweep * p.area)
	return body, nil
}

// Combine merges two bodies with a boolean operation.
func (d *Document) Combine(target, tool *Body, op BoolOp) (*Body, error) {
	if target == nil || tool == nil {
		return nil, fmt.Errorf("boolean combine failed: target body does not exist")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch op {
	case OpJoin:
		target.Volume += tool.Volume
	case OpCut:
		target.Volume = math.Max(0, target.Volume-tool.Volume)
	case OpIntersect:
		target.Volume = math.Min(target.Volume, tool.Volume)
	default:
		return nil, fmt.Errorf("boolean combine failed: unknown operation %q", op)
	}
	d.removeBody(tool)
	return target, nil
}

func (d *Document) Bodies() []*Body {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Body, len(d.bodies))
	copy(out, d.bodies)
	return out
}

func (d *Document) addBody(volume float64) *Body {
	d.mu.Lock()
	defer d.mu.Unlock()

	body := &Body{
		Name:   fmt.Sprintf("Body%d", len(d.bodies)+1),
		Volume: volume,
	}
	d.bodies = append(d.bodies, body)
	return body
}

func (d *Document) removeBody(b *Body) {
	for i, existing := range d.bodies {
		if existing == b {
			d.bodies = append(d.bodies[:i], d.bodies[i+1:]...)
			return
		}
	}
}

func pointLineDistance(px, py float64, axis Axis) float64 {
	dx := axis.X2 - axis.X1
	dy := axis.Y2 - axis.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px-axis.X1, py-axis.Y1)
	}
	return math.Abs(dy*px-dx*py+axis.X2*axis.Y1-axis.Y2*axis.X1) / length
}

var (
	activeMu  sync.Mutex
	activeDoc *Document
)

// Active returns the live document of the host session. Scripts call this
// instead of receiving the document as an argument.
func Active() *Document {
	activeMu.Lock()
	defer activeMu.Unlock()

	if activeDoc == nil {
		activeDoc = &Document{}
	}
	return activeDoc
}

// Reset discards the active document. Used between test runs.
func Reset() {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeDoc = nil
}

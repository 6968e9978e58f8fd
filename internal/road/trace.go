package road

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Trace points closer than this are merged when building shapes.
const traceSparsifyDist = 0.1

// TracePoint is one per-step sample of a car's pose.
type TracePoint struct {
	Pos      r2.Vec
	Theta    float64
	PolicyID uint32
}

// ShapeKind distinguishes drawable primitives.
type ShapeKind int

const (
	ShapePolyline ShapeKind = iota
	ShapePoints
)

// Highlight marks ego traces that ended badly.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightUnsafe
	HighlightCrashed
)

// TraceShape is a drawable primitive for an external renderer. Nothing in
// the planner reads it back.
type TraceShape struct {
	Kind      ShapeKind `json:"kind"`
	CarI      int       `json:"car_i"`
	Depth     int       `json:"depth"`
	PolicyID  uint32    `json:"policy_id"`
	Width     float64   `json:"width"`
	Highlight Highlight `json:"highlight"`
	Points    []r2.Vec  `json:"points"`
}

// ResetCarTraces clears the trace buffers, or disables them entirely when
// running fast.
func (r *Road) ResetCarTraces() {
	if r.Params.RunFast {
		r.carTraces = nil
		return
	}
	r.carTraces = make([][]TracePoint, 0, len(r.Cars))
}

// TracesEnabled reports whether Update is recording traces.
func (r *Road) TracesEnabled() bool {
	return r.carTraces != nil
}

// CarTrace returns the recorded samples for carI.
func (r *Road) CarTrace(carI int) []TracePoint {
	if carI >= len(r.carTraces) {
		return nil
	}
	return r.carTraces[carI]
}

func (r *Road) recordTraces() {
	if r.carTraces == nil {
		return
	}
	for len(r.carTraces) < len(r.Cars) {
		r.carTraces = append(r.carTraces, nil)
	}
	for carI := range r.Cars {
		car := &r.Cars[carI]
		if car.Crashed {
			continue
		}
		pos, theta := car.Pose()
		r.carTraces[carI] = append(r.carTraces[carI], TracePoint{
			Pos:      pos,
			Theta:    theta,
			PolicyID: car.ActivePolicyID(),
		})
	}
}

// MakeTraces turns the recorded traces into shapes tagged with depth. The
// ego always gets a polyline plus a point marker per sample; other cars
// are included only when includeObstacles is set or they are DebugCarI.
func (r *Road) MakeTraces(depth int, includeObstacles bool) []TraceShape {
	var shapes []TraceShape
	for carI, trace := range r.carTraces {
		if len(trace) == 0 {
			continue
		}
		points := sparsify(trace)

		switch {
		case carI == 0:
			highlight := HighlightNone
			if r.Cars[0].Crashed {
				highlight = HighlightCrashed
			} else if r.Cost.Safety > 0 {
				highlight = HighlightUnsafe
			}
			width := egoTraceWidth(depth)
			if highlight != HighlightNone {
				width += 4
			}
			policyID := r.EgoPolicy().OperatingPolicy().PolicyID()
			shapes = append(shapes,
				TraceShape{Kind: ShapePolyline, CarI: 0, Depth: depth, PolicyID: policyID, Width: width, Highlight: highlight, Points: points},
				TraceShape{Kind: ShapePoints, CarI: 0, Depth: depth, PolicyID: policyID, Width: 0.15, Highlight: highlight, Points: points},
			)
		case carI == r.Params.DebugCarI, includeObstacles:
			shapes = append(shapes, TraceShape{
				Kind:     ShapePolyline,
				CarI:     carI,
				Depth:    depth,
				PolicyID: r.Cars[carI].ActivePolicyID(),
				Width:    6,
				Points:   points,
			})
		}
	}
	return shapes
}

func egoTraceWidth(depth int) float64 {
	switch depth {
	case 0:
		return 12
	case 1:
		return 6
	case 2:
		return 3
	default:
		return 1.5
	}
}

func sparsify(trace []TracePoint) []r2.Vec {
	points := make([]r2.Vec, 0, len(trace))
	for _, tp := range trace {
		if n := len(points); n > 0 && r2.Norm2(r2.Sub(points[n-1], tp.Pos)) < traceSparsifyDist*traceSparsifyDist {
			continue
		}
		points = append(points, tp.Pos)
	}
	return points
}

package bundle

import (
	"math"

	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

// Spot summarises where the complete traces of a bundle end up.
type Spot struct {
	Complete  int           `json:"complete"`
	Truncated int           `json:"truncated"`
	Centroid  mathutil.Vec3 `json:"centroid"`
	RMSRadius float64       `json:"rms_radius"`
}

// SpotOf computes the centroid and RMS radius of the final points of the
// complete traces. Traces without points are ignored.
func SpotOf(traces []Trace) Spot {
	var s Spot
	var sum mathutil.Vec3
	for _, t := range traces {
		if len(t.Result.Points) == 0 {
			continue
		}
		if t.Result.Status != tracer.Complete {
			s.Truncated++
			continue
		}
		s.Complete++
		sum = sum.Add(t.Result.Final())
	}
	if s.Complete == 0 {
		return s
	}
	s.Centroid = sum.Scale(1 / float64(s.Complete))

	var sq float64
	for _, t := range traces {
		if len(t.Result.Points) == 0 || t.Result.Status != tracer.Complete {
			continue
		}
		d := t.Result.Final().DistanceTo(s.Centroid)
		sq += d * d
	}
	s.RMSRadius = math.Sqrt(sq / float64(s.Complete))
	return s
}

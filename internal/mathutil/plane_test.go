package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectRayPlane(t *testing.T) {
	tests := []struct {
		name     string
		origin   Vec3
		dir      Vec3
		point    Vec3
		normal   Vec3
		wantOK   bool
		wantHit  Vec3
		wantDist float64
	}{
		{
			name:     "axial",
			origin:   Vec3{0, 0, 5},
			dir:      Vec3{0, 0, 1},
			point:    Vec3{0, 0, 20},
			normal:   Vec3{0, 0, 1},
			wantOK:   true,
			wantHit:  Vec3{0, 0, 20},
			wantDist: 15,
		},
		{
			name:     "unnormalized plane normal",
			origin:   Vec3{0, 0, 0},
			dir:      Vec3{0, 0, 1},
			point:    Vec3{0, 0, 4},
			normal:   Vec3{0, 0, -7},
			wantOK:   true,
			wantHit:  Vec3{0, 0, 4},
			wantDist: 4,
		},
		{
			name:     "oblique ray reports euclidean distance",
			origin:   Vec3{0, 0, 0},
			dir:      Vec3{0, 3, 4}.Normalize(),
			point:    Vec3{0, 0, 8},
			normal:   Vec3{0, 0, 1},
			wantOK:   true,
			wantHit:  Vec3{0, 6, 8},
			wantDist: 10,
		},
		{
			name:   "parallel",
			origin: Vec3{0, 1, 0},
			dir:    Vec3{1, 0, 0},
			point:  Vec3{0, 0, 0},
			normal: Vec3{0, 1, 0},
			wantOK: false,
		},
		{
			name:   "behind",
			origin: Vec3{0, 0, 10},
			dir:    Vec3{0, 0, 1},
			point:  Vec3{0, 0, 0},
			normal: Vec3{0, 0, 1},
			wantOK: false,
		},
		{
			name:     "origin in plane",
			origin:   Vec3{2, 0, 0},
			dir:      Vec3{1, 0, 0},
			point:    Vec3{0, 0, 0},
			normal:   Vec3{0, 1, 0},
			wantOK:   true,
			wantHit:  Vec3{2, 0, 0},
			wantDist: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, dist, ok := IntersectRayPlane(tc.origin, tc.dir, tc.point, tc.normal)
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.True(t, hit.ApproxEqual(tc.wantHit, 1e-9), "hit %v", hit)
			assert.InDelta(t, tc.wantDist, dist, 1e-9)
		})
	}
}

func TestIntersectRayPlaneNoNaN(t *testing.T) {
	_, _, ok := IntersectRayPlane(Vec3{0, 0, 0}, Vec3{}, Vec3{0, 0, 1}, Vec3{0, 0, 1})
	assert.False(t, ok)
	_, dist, ok := IntersectRayPlane(Vec3{0, 0, 0}, Vec3{0, 0, 1}, Vec3{0, 0, 1}, Vec3{0, 0, 1})
	assert.True(t, ok)
	assert.False(t, math.IsNaN(dist))
}

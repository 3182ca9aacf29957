package posture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
)

//polar returns the point at the given direction (degrees, image coordinates) and distance from origin
func polar(origin r2.Point, deg, length float64) r2.Point {
	rad := deg * math.Pi / 180
	return r2.Point{X: origin.X + length*math.Cos(rad), Y: origin.Y + length*math.Sin(rad)}
}

func TestAngle(t *testing.T) {
	t.Parallel()

	b := r2.Point{X: 0.5, Y: 0.5}

	tests := []struct {
		name string
		a, c r2.Point
		want float64
	}{
		{"right angle", r2.Point{X: 0.5, Y: 0.2}, r2.Point{X: 0.8, Y: 0.5}, 90},
		{"straight line", r2.Point{X: 0.5, Y: 0.2}, r2.Point{X: 0.5, Y: 0.9}, 180},
		{"same direction", r2.Point{X: 0.6, Y: 0.5}, r2.Point{X: 0.9, Y: 0.5}, 0},
		{"reflex corrected", polar(b, 170, 0.2), polar(b, -170, 0.2), 20},
		{"obtuse", polar(b, -80, 0.3), polar(b, 90, 0.3), 170},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Angle(tt.a, b, tt.c), 1e-9)
		})
	}
}

func TestAngleDegenerate(t *testing.T) {
	t.Parallel()

	b := r2.Point{X: 0.3, Y: 0.4}
	other := r2.Point{X: 0.7, Y: 0.1}

	assert.Equal(t, 0.0, Angle(b, b, other))
	assert.Equal(t, 0.0, Angle(other, b, b))
	assert.Equal(t, 0.0, Angle(b, b, b))
}

func TestAngleSymmetricAndBounded(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	randPoint := func() r2.Point {
		return r2.Point{X: rng.Float64(), Y: rng.Float64()}
	}

	for i := 0; i < 1000; i++ {
		a, b, c := randPoint(), randPoint(), randPoint()

		got := Angle(a, b, c)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 180.0)
		assert.InDelta(t, got, Angle(c, b, a), 1e-9)
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	knee := r2.Point{X: 0.55, Y: 0.7}
	toe := r2.Point{X: 0.5, Y: 0.9}

	assert.InDelta(t, 0.05, Offset(knee, toe), 1e-12)
	assert.InDelta(t, -0.05, Offset(toe, knee), 1e-12)
}

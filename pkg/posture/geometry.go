package posture

import (
	"math"

	"github.com/golang/geo/r2"
)

//Angle returns the angle in degrees at vertex b between the rays b->a and b->c.
//The result is always in [0,180]; a degenerate ray (a == b or c == b) yields 0.
func Angle(a, b, c r2.Point) float64 {
	if a == b || c == b {
		return 0
	}

	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	degrees := math.Abs(radians * 180 / math.Pi)
	if degrees > 180 {
		degrees = 360 - degrees
	}

	return degrees
}

//Offset returns the signed horizontal difference p.x - q.x
func Offset(p, q r2.Point) float64 {
	return p.X - q.X
}

//round2 rounds to two decimal places for reporting
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 { //no negative zero in reports
		return 0
	}
	return r
}

package core

import "github.com/go-gl/mathgl/mgl64"

// Normalize returns a unit vector, or the zero vector if v has (almost) no length.
// mgl64's own Normalize divides by zero in that case.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec2{}
	}
	return v.Mul(1.0 / l)
}

// Lerp blends a towards b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Fade is Perlin's quintic easing curve 6t^5 - 15t^4 + 10t^3.
func Fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

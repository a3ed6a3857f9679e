package viewport

// Steps is an ordered table of allowed zoom scales. Discrete zoom actions
// move between neighboring entries; the current scale may sit between
// entries (a transient fit scale, for example) but never outside the
// table's range.
type Steps []float64

// DefaultSteps is the shared zoom table for all document kinds.
var DefaultSteps = Steps{
	0.05, 0.1, 0.25, 0.33, 0.5, 0.67, 0.75, 0.9,
	1.0, 1.1, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0, 4.0, 5.0, 7.5, 10.0,
}

// stepEps absorbs float drift when matching the current scale against
// table entries.
const stepEps = 1e-9

// Valid reports whether the table is non-empty and strictly increasing.
func (s Steps) Valid() bool {
	if len(s) == 0 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}

// Min returns the smallest allowed scale.
func (s Steps) Min() float64 { return s[0] }

// Max returns the largest allowed scale.
func (s Steps) Max() float64 { return s[len(s)-1] }

// Clamp limits a scale to the table's range.
func (s Steps) Clamp(scale float64) float64 {
	if scale < s.Min() {
		return s.Min()
	}
	if scale > s.Max() {
		return s.Max()
	}
	return scale
}

// In returns the next table entry above the current scale, or the table
// maximum when already at or past the top. Zooming at the extreme is a
// no-op, not an error.
func (s Steps) In(cur float64) float64 {
	for _, v := range s {
		if v > cur+stepEps {
			return v
		}
	}
	return s.Max()
}

// Out returns the next table entry below the current scale, or the table
// minimum when already at or past the bottom.
func (s Steps) Out(cur float64) float64 {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] < cur-stepEps {
			return s[i]
		}
	}
	return s.Min()
}

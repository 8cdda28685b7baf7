package audio

// Signed 16-bit sample range.
const (
	MaxSample = 32767
	MinSample = -32768
)

// Clamp16 saturates v to the signed 16-bit sample range.
func Clamp16(v int) int16 {
	if v > MaxSample {
		return MaxSample
	}
	if v < MinSample {
		return MinSample
	}
	return int16(v)
}

// Sum16 adds two samples with saturation instead of wraparound.
func Sum16(a, b int16) int16 {
	return Clamp16(int(a) + int(b))
}

// FloatsToPCM converts float samples in [-1, 1] to 16-bit PCM.
// Values are scaled by 32767 and truncated toward zero; input outside
// the unit range saturates.
func FloatsToPCM(in []float64) []int16 {
	out := make([]int16, len(in))
	for i, f := range in {
		out[i] = Clamp16(int(f * MaxSample))
	}
	return out
}

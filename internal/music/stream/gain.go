package stream

import "math"

// ApplyGain scales PCM samples in place by percent/100, clipping to the int16
// range. 100 leaves the samples untouched and 0 silences them.
func ApplyGain(pcm []int16, percent float64) {
	if percent == 100 {
		return
	}
	if percent <= 0 {
		clear(pcm)
		return
	}

	factor := percent / 100
	for i, s := range pcm {
		v := math.Round(float64(s) * factor)
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		}
		pcm[i] = int16(v)
	}
}

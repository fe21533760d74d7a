package cube

import "math"

// ChannelStats summarizes per-channel deviation from identity.
type ChannelStats struct {
	MeanShift float64 `json:"mean_shift"`
	StdDev    float64 `json:"std"`
	MinShift  float64 `json:"min_shift"`
	MaxShift  float64 `json:"max_shift"`
}

// Analysis characterizes a LUT relative to the identity transform.
type Analysis struct {
	Title            string                  `json:"title"`
	Size             int                     `json:"size"`
	Channels         map[string]ChannelStats `json:"channels"`
	Contrast         float64                 `json:"contrast"`
	SaturationChange float64                 `json:"saturation_change"`
	ColorTemperature string                  `json:"color_temperature"`
	ShadowLift       float64                 `json:"shadow_lift"`
	HighlightRoll    float64                 `json:"highlight_roll"`
}

// Analyze computes the statistics described on Analysis.
func (l *LUT) Analyze() Analysis {
	a := Analysis{
		Title:    l.Title,
		Size:     l.Size,
		Channels: make(map[string]ChannelStats, 3),
	}
	max := float64(l.Size - 1)

	names := [3]string{"R", "G", "B"}
	for ch := 0; ch < 3; ch++ {
		var sum, sumSq float64
		minShift, maxShift := math.Inf(1), math.Inf(-1)
		n := 0
		for b := 0; b < l.Size; b++ {
			for g := 0; g < l.Size; g++ {
				for r := 0; r < l.Size; r++ {
					ident := [3]float64{float64(r) / max, float64(g) / max, float64(b) / max}
					d := l.At(r, g, b)[ch] - ident[ch]
					sum += d
					sumSq += d * d
					if d < minShift {
						minShift = d
					}
					if d > maxShift {
						maxShift = d
					}
					n++
				}
			}
		}
		mean := sum / float64(n)
		variance := sumSq/float64(n) - mean*mean
		if variance < 0 {
			variance = 0
		}
		a.Channels[names[ch]] = ChannelStats{
			MeanShift: mean,
			StdDev:    math.Sqrt(variance),
			MinShift:  minShift,
			MaxShift:  maxShift,
		}
	}

	a.Contrast = l.dataStdDev()
	a.SaturationChange = l.saturationChange()
	a.ColorTemperature = l.colorTemperature()
	a.ShadowLift = l.cornerMean(0, l.Size/4)
	a.HighlightRoll = l.cornerMean(3*l.Size/4, l.Size)
	return a
}

// dataStdDev is the standard deviation across every table component, a rough
// proxy for overall contrast.
func (l *LUT) dataStdDev() float64 {
	var sum, sumSq float64
	n := 0
	for _, row := range l.Data {
		for _, v := range row {
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// saturationChange samples interior grid points and compares the max-min
// spread of the transformed color against the input color.
func (l *LUT) saturationChange() float64 {
	max := float64(l.Size - 1)
	var sum float64
	n := 0
	for r := 1; r < l.Size-1; r += 2 {
		for g := 1; g < l.Size-1; g += 2 {
			for b := 1; b < l.Size-1; b += 2 {
				orig := [3]float64{float64(r) / max, float64(g) / max, float64(b) / max}
				trans := l.At(r, g, b)
				origSat := spread(orig)
				if origSat <= 0.01 {
					continue
				}
				sum += spread(trans) / origSat
				n++
			}
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

// colorTemperature inspects the mid-gray point: a red-blue imbalance beyond
// 0.03 reads as a warm or cool cast.
func (l *LUT) colorTemperature() string {
	mid := l.Size / 2
	gray := l.At(mid, mid, mid)
	rbDiff := gray[0] - gray[2]
	switch {
	case rbDiff > 0.03:
		return "warm"
	case rbDiff < -0.03:
		return "cool"
	default:
		return "neutral"
	}
}

func (l *LUT) cornerMean(lo, hi int) float64 {
	if hi <= lo {
		hi = lo + 1
	}
	if hi > l.Size {
		hi = l.Size
	}
	var sum float64
	n := 0
	for b := lo; b < hi; b++ {
		for g := lo; g < hi; g++ {
			for r := lo; r < hi; r++ {
				v := l.At(r, g, b)
				sum += v[0] + v[1] + v[2]
				n += 3
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func spread(v [3]float64) float64 {
	lo, hi := v[0], v[0]
	for _, c := range v[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return hi - lo
}

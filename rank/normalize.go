package rank

import (
	"math"
	"sort"
)

// Method is a sub-score normalization method (spec.md §4.10 step 6).
type Method string

const (
	ZScore      Method = "z_score"
	MinMax      Method = "min_max"
	LogTransform Method = "log_transform"
	RobustScale Method = "robust_scale"
	Clip        Method = "clip"
	ExpTransform Method = "exp_transform"
)

// normalize dispatches to the configured method, defaulting to z-score,
// grounded on original_source/src/modules/normalizer.py's Normalizer.
func normalize(method Method, scores []float64) []float64 {
	switch method {
	case MinMax:
		return minMax(scores)
	case LogTransform:
		return logTransform(scores)
	case RobustScale:
		return robustScale(scores)
	case Clip:
		return clip(scores, 0, 1)
	case ExpTransform:
		return expTransform(scores)
	default:
		return zScore(scores)
	}
}

func zScore(scores []float64) []float64 {
	n := float64(len(scores))
	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= n

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= n
	stddev := math.Sqrt(variance)

	out := make([]float64, len(scores))
	if stddev == 0 {
		return out
	}
	for i, s := range scores {
		out[i] = (s - mean) / stddev
	}
	return out
}

func minMax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	min, max := scores[0], scores[0]
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	if max == min {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}

func logTransform(scores []float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Log(s + 1)
	}
	return out
}

func robustScale(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	sorted := append([]float64{}, scores...)
	sort.Float64s(sorted)
	n := len(sorted)
	median := sorted[n/2]
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1

	out := make([]float64, len(scores))
	if iqr == 0 {
		return out
	}
	for i, s := range scores {
		out[i] = (s - median) / iqr
	}
	return out
}

func clip(scores []float64, minVal, maxVal float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		if s < minVal {
			s = minVal
		}
		if s > maxVal {
			s = maxVal
		}
		out[i] = s
	}
	return out
}

func expTransform(scores []float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = 1 - math.Exp(-s)
	}
	return out
}

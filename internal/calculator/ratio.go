package calculator

import (
	"math"

	"mpoxdash/internal/model"
)

// ratio num/den*scale，任一未知、分母为 0 或结果非有限值时为未知
func ratio(num, den *float64, scale float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return finite(*num / *den * scale)
}

// diff a-b，任一未知时为未知
func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return finite(*a - *b)
}

// sumKnown 已知分量之和，全部未知时为未知
func sumKnown(values ...*float64) *float64 {
	var total float64
	known := false
	for _, v := range values {
		if v != nil {
			total += *v
			known = true
		}
	}
	if !known {
		return nil
	}
	return finite(total)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return model.Float(v)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// accumulator 按列累加已知值
type accumulator struct {
	sum   float64
	known bool
}

func (a *accumulator) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.known = true
}

func (a *accumulator) value() *float64 {
	if !a.known {
		return nil
	}
	return finite(a.sum)
}

// maxAccumulator 按列取已知最大值
type maxAccumulator struct {
	max   float64
	known bool
}

func (a *maxAccumulator) add(v *float64) {
	if v == nil {
		return
	}
	if !a.known || *v > a.max {
		a.max = *v
		a.known = true
	}
}

func (a *maxAccumulator) value() *float64 {
	if !a.known {
		return nil
	}
	return model.Float(a.max)
}

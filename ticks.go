package fccbana

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places labelled major ticks on round values and unlabelled
// minor ticks between them, aiming for NSuggestedTicks major ticks.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	nTicks := t.NSuggestedTicks
	if nTicks < 2 {
		nTicks = 4
	}
	if max <= min {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min, -1)}}
	}

	span := max - min
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(nTicks-1) {
		tens /= 10
	}

	majorMult := int(span / tens / float64(nTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	prec := 0
	if d := -int(math.Floor(math.Log10(majorDelta))); d > 0 {
		prec = d
	}
	var ticks []plot.Tick
	for _, v := range multiples(min, max, majorDelta) {
		v = round(v, prec)
		ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v, -1)})
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}

	nMajor := len(ticks)
	for _, v := range multiples(min, max, minorDelta) {
		if isMajor(ticks[:nMajor], v, minorDelta) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v})
	}
	return ticks
}

// multiples returns the multiples of delta within [min, max].
func multiples(min, max, delta float64) []float64 {
	eps := 1e-9 * delta
	var vs []float64
	for i := math.Ceil((min - eps) / delta); i*delta <= max+eps; i++ {
		v := i * delta
		if v < min {
			v = min
		}
		if v > max {
			v = max
		}
		vs = append(vs, v)
	}
	return vs
}

func isMajor(majors []plot.Tick, v, delta float64) bool {
	for _, t := range majors {
		if math.Abs(t.Value-v) < 1e-6*delta {
			return true
		}
	}
	return false
}

// round rounds x to prec decimal places, away from zero on halves.
func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	if x < 0 {
		scaled = math.Ceil(scaled - 0.5)
	} else {
		scaled = math.Floor(scaled + 0.5)
	}
	if scaled == 0 {
		return 0
	}
	return scaled / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}

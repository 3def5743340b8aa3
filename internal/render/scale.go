package render

import (
	"math"
	"strconv"
	"time"
)

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// Map converts v to a pixel position. Values outside the domain are not clamped.
// A degenerate domain maps everything to the middle of the range.
func (s LinearScale) Map(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	if d == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - s.Domain[0]) / d
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// TimeScale maps instants onto a pixel range.
type TimeScale struct {
	Domain [2]time.Time
	Range  [2]float64
}

// Map converts t to a pixel position.
func (s TimeScale) Map(t time.Time) float64 {
	return LinearScale{
		Domain: [2]float64{unixSeconds(s.Domain[0]), unixSeconds(s.Domain[1])},
		Range:  s.Range,
	}.Map(unixSeconds(t))
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// Tick is an axis tick at a pixel position.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// niceTicks returns roughly count round values inside [start, stop] and the
// step between them.
func niceTicks(start, stop float64, count int) ([]float64, float64) {
	if count <= 0 || !(stop > start) {
		if start == stop {
			return []float64{start}, 0
		}
		return nil, 0
	}

	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	var ticks []float64
	if power < 0 {
		// Divide by an integer to keep decimal ticks exact.
		inc := math.Pow(10, -power) / factor
		i1 := math.Round(start * inc)
		i2 := math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		for i := i1; i <= i2; i++ {
			ticks = append(ticks, i/inc)
		}
		return ticks, 1 / inc
	}

	inc := math.Pow(10, power) * factor
	i1 := math.Round(start / inc)
	i2 := math.Round(stop / inc)
	if i1*inc < start {
		i1++
	}
	if i2*inc > stop {
		i2--
	}
	for i := i1; i <= i2; i++ {
		ticks = append(ticks, i*inc)
	}
	return ticks, inc
}

// tickDecimals is the number of decimals needed to tell ticks step apart.
func tickDecimals(step float64) int {
	if step <= 0 {
		return 0
	}
	d := -int(math.Floor(math.Log10(step)))
	if d < 0 {
		return 0
	}
	return d
}

// valueTicks builds ticks for a linear value axis.
func valueTicks(s LinearScale, count int) []Tick {
	values, step := niceTicks(s.Domain[0], s.Domain[1], count)
	decimals := tickDecimals(step)

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{
			Pos:   s.Map(v),
			Label: strconv.FormatFloat(v, 'f', decimals, 64),
		})
	}
	return ticks
}

// yearTicks builds year-labelled ticks on January 1st of round years inside the domain.
func yearTicks(s TimeScale, count int) []Tick {
	start := fractionalYear(s.Domain[0])
	stop := fractionalYear(s.Domain[1])

	values, step := niceTicks(start, stop, count)
	if step > 0 && step < 1 {
		values, _ = niceTicks(math.Ceil(start), math.Floor(stop), int(math.Floor(stop)-math.Ceil(start)))
	}

	var ticks []Tick
	seen := make(map[int]bool)
	for _, v := range values {
		year := int(math.Round(v))
		if seen[year] {
			continue
		}
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		if t.Before(s.Domain[0]) || t.After(s.Domain[1]) {
			continue
		}
		seen[year] = true
		ticks = append(ticks, Tick{Pos: s.Map(t), Label: strconv.Itoa(year)})
	}
	return ticks
}

func fractionalYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(t.Year()) + t.Sub(start).Seconds()/end.Sub(start).Seconds()
}

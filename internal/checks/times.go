package checks

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp string in any of the accepted layouts
// (RFC3339, "2006-01-02 15:04:05", "2006-01-02").
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// timeColumn returns the non-null timestamps of a column. Datetime columns
// are read directly; string columns are parsed into a fresh slice so the
// caller's dataset is never touched.
func timeColumn(col dataset.Column) ([]time.Time, error) {
	switch col.Kind {
	case dataset.KindDatetime:
		out := make([]time.Time, 0, col.Len())
		for _, cell := range col.Cells {
			if !cell.Null {
				out = append(out, cell.Time)
			}
		}
		return out, nil
	case dataset.KindString:
		out := make([]time.Time, 0, col.Len())
		for _, cell := range col.Cells {
			if cell.Null {
				continue
			}
			t, err := ParseTimestamp(cell.Str)
			if err != nil {
				return nil, &TypeMismatchError{Column: col.Name, Want: "datetime", Got: col.Kind}
			}
			out = append(out, t)
		}
		return out, nil
	}
	return nil, &TypeMismatchError{Column: col.Name, Want: "datetime", Got: col.Kind}
}

func sortedTimes(times []time.Time) []time.Time {
	out := make([]time.Time, len(times))
	copy(out, times)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// consecutiveDeltas returns the gaps between consecutive sorted timestamps
// in the given unit. The undefined first delta is dropped, so a column with
// fewer than two timestamps yields an empty slice.
func consecutiveDeltas(times []time.Time, unit time.Duration) []float64 {
	sorted := sortedTimes(times)
	if len(sorted) < 2 {
		return nil
	}
	deltas := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		deltas = append(deltas, float64(sorted[i].Sub(sorted[i-1]))/float64(unit))
	}
	return deltas
}

func maxTime(times []time.Time) time.Time {
	most := times[0]
	for _, t := range times[1:] {
		if t.After(most) {
			most = t
		}
	}
	return most
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxFloat(vals []float64) float64 {
	most := vals[0]
	for _, v := range vals[1:] {
		if v > most {
			most = v
		}
	}
	return most
}

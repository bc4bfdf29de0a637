package pipeline

import (
	"fmt"
	"strconv"
	"time"
)

// Field is one labelled line of a run summary.
type Field struct {
	Label, Value string
}

// Fields flattens the result into display lines, in a fixed order.
func (r *Result) Fields() []Field {
	size := 0
	if r.Grid != nil {
		size = r.Grid.Size()
	}
	fields := []Field{
		{"run", r.RunID.String()[:8]},
		{"seed", strconv.FormatInt(r.Seed, 10)},
		{"generator", r.Report.Generator},
		{"size", fmt.Sprintf("%dx%d", size, size)},
	}
	if size == 0 {
		return append(fields, Field{"status", "empty grid"})
	}
	fields = append(fields,
		Field{"height before", heightRange(r.Report.Before)},
		Field{"height after", heightRange(r.Report.After)},
		Field{"mass change", FormatFloat(r.Report.After.Sum - r.Report.Before.Sum)},
	)
	for _, p := range r.Report.Passes {
		fields = append(fields, Field{p.Name, roundDuration(p.Duration).String()})
	}
	fields = append(fields, Field{"anomalies", strconv.Itoa(r.Report.Anomalies)})
	if r.Report.RidgeCells > 0 || r.Report.RidgeLines > 0 {
		fields = append(fields, Field{"ridges", fmt.Sprintf("%d cells, %d lines", r.Report.RidgeCells, r.Report.RidgeLines)})
	}
	return append(fields, Field{"total", roundDuration(r.Report.Total).String()})
}

func heightRange(s Stats) string {
	return FormatFloat(s.Min) + " .. " + FormatFloat(s.Max)
}

func roundDuration(d time.Duration) time.Duration {
	if d > time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(time.Microsecond)
}

// FormatFloat prints v with three decimals, trailing zeros trimmed.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	for len(s) > 1 && s[len(s)-1] == '0' && s[len(s)-2] != '.' {
		s = s[:len(s)-1]
	}
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

package pipeline

import "testing"

func TestFormatFloat(t *testing.T) {
	for in, want := range map[float64]string{
		1:       "1.0",
		0.25:    "0.25",
		-3.1416: "-3.142",
		-0.0001: "0.0",
		120.5:   "120.5",
	} {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestResultFields(t *testing.T) {
	res, err := Run(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	fields := res.Fields()
	labels := map[string]string{}
	for _, f := range fields {
		labels[f.Label] = f.Value
	}
	for _, want := range []string{"run", "seed", "generator", "size", "height before", "particle", "thermal", "anomalies", "total"} {
		if _, ok := labels[want]; !ok {
			t.Errorf("missing field %q in %v", want, fields)
		}
	}
	if labels["seed"] != "7" || labels["size"] != "32x32" || labels["generator"] != "perlin" {
		t.Fatalf("fields %v", fields)
	}
	if fields[len(fields)-1].Label != "total" {
		t.Fatal("total should come last")
	}

	cfg := smallConfig()
	cfg.Size = -4
	empty, err := Run(cfg)
	if err != nil {
		t.Fatal(err)
	}
	last := empty.Fields()[len(empty.Fields())-1]
	if last.Label != "status" || last.Value != "empty grid" {
		t.Fatalf("empty run fields %v", empty.Fields())
	}
}

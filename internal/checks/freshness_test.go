package checks

import (
	"math"
	"testing"
	"time"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
	"github.com/alexanderjulianmartinez/table-watch/pkg/types"
)

func TestFreshnessStale(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ds := mustDataset(t, dataset.Times("ts",
		now.Add(-40*time.Hour),
		now.Add(-30*time.Hour),
	))
	res, err := freshnessAt(ds, "ts", 24, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Severity != types.SeverityError {
		t.Fatalf("expected ERROR severity, got %s", res.Severity)
	}
	age := res.Metadata["age_hours"].Float
	if math.Abs(age-30) > 0.01 {
		t.Fatalf("expected age_hours ~30, got %f", age)
	}
}

func TestFreshnessFresh(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ds := mustDataset(t, dataset.Times("ts", now.Add(-2*time.Hour)))
	res, err := freshnessAt(ds, "ts", 24, now)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
}

func TestFreshnessMissingColumnIsDetectedNotFault(t *testing.T) {
	ds := mustDataset(t, dataset.Ints("id", 1))
	res, err := Freshness(ds, "ts", 24)
	if err != nil {
		t.Fatalf("missing timestamp column must not fault: %v", err)
	}
	if res.Passed || res.Severity != types.SeverityError {
		t.Fatalf("expected failing ERROR result, got %+v", res)
	}
	available := textList(t, res.Metadata["available_columns"])
	if len(available) != 1 || available[0] != "id" {
		t.Fatalf("expected available_columns [id], got %v", available)
	}
}

func TestFreshnessNoTimestamps(t *testing.T) {
	ds := mustDataset(t, dataset.NewColumn("ts", dataset.KindDatetime, dataset.Null(), dataset.Null()))
	res, err := Freshness(ds, "ts", 24)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed || res.Severity != types.SeverityError {
		t.Fatalf("expected failing ERROR result, got %+v", res)
	}
}

func TestUpdateFrequencyInsufficientData(t *testing.T) {
	ds := mustDataset(t, dataset.Times("ts", time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
	res, err := UpdateFrequency(ds, "ts", 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Severity != types.SeverityWarn {
		t.Fatalf("insufficient data should WARN, got %s", res.Severity)
	}
}

func TestUpdateFrequencyLargeGap(t *testing.T) {
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	ds := mustDataset(t, dataset.Times("ts",
		base,
		base.Add(1*time.Hour),
		base.Add(2*time.Hour),
		base.Add(6*time.Hour),
	))
	res, err := UpdateFrequency(ds, "ts", 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Severity != types.SeverityWarn {
		t.Fatalf("gap should WARN, got %s", res.Severity)
	}
	if res.Metadata["max_gap_hours"].Float != 4 {
		t.Fatalf("expected max_gap_hours 4, got %f", res.Metadata["max_gap_hours"].Float)
	}
	if res.Metadata["avg_frequency_hours"].Float != 2 {
		t.Fatalf("expected avg_frequency_hours 2, got %f", res.Metadata["avg_frequency_hours"].Float)
	}
}

func TestUpdateFrequencyNormal(t *testing.T) {
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	// Row order must not matter: timestamps are sorted before deltas.
	ds := mustDataset(t, dataset.Times("ts",
		base.Add(2*time.Hour),
		base,
		base.Add(1*time.Hour),
	))
	res, err := UpdateFrequency(ds, "ts", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
}

func TestContinuityGaps(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ds := mustDataset(t, dataset.Times("ts",
		base,
		base.Add(60*time.Minute),
		base.Add(180*time.Minute),
	))
	res, err := Continuity(ds, "ts", 60)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Severity != types.SeverityWarn {
		t.Fatalf("continuity gaps should WARN, got %s", res.Severity)
	}
	if res.Metadata["gap_count"].Int != 1 {
		t.Fatalf("expected gap_count 1, got %d", res.Metadata["gap_count"].Int)
	}
	if res.Metadata["largest_gap_minutes"].Float != 120 {
		t.Fatalf("expected largest gap 120, got %f", res.Metadata["largest_gap_minutes"].Float)
	}
	if res.Metadata["tolerance_minutes"].Float != 90 {
		t.Fatalf("expected tolerance 90, got %f", res.Metadata["tolerance_minutes"].Float)
	}
}

func TestContinuityContinuous(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ds := mustDataset(t, dataset.Times("ts",
		base,
		base.Add(60*time.Minute),
		base.Add(120*time.Minute),
	))
	res, err := Continuity(ds, "ts", 60)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
}

func TestBusinessHoursDistribution(t *testing.T) {
	ds := mustDataset(t, dataset.Times("ts",
		time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), // Monday, business hours
		time.Date(2024, 1, 6, 20, 0, 0, 0, time.UTC), // Saturday, after hours
	))
	res, err := BusinessHours(ds, "ts", 9, 17)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed {
		t.Fatalf("business hours check is informational and must pass, got %+v", res)
	}
	if res.Severity != types.SeverityInfo {
		t.Fatalf("expected INFO severity, got %s", res.Severity)
	}
	if res.Metadata["business_hours_percentage"].Float != 50 {
		t.Fatalf("expected 50%% business hours, got %f", res.Metadata["business_hours_percentage"].Float)
	}
	if res.Metadata["weekend_percentage"].Float != 50 {
		t.Fatalf("expected 50%% weekend, got %f", res.Metadata["weekend_percentage"].Float)
	}
}

func TestBusinessHoursEndExclusive(t *testing.T) {
	ds := mustDataset(t, dataset.Times("ts",
		time.Date(2024, 1, 8, 17, 0, 0, 0, time.UTC), // exactly at businessEnd
	))
	res, err := BusinessHours(ds, "ts", 9, 17)
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata["business_hours_count"].Int != 0 {
		t.Fatalf("hour equal to businessEnd must not count, got %+v", res.Metadata)
	}
}

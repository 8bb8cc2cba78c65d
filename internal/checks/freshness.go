package checks

import (
	"fmt"
	"time"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
	"github.com/alexanderjulianmartinez/table-watch/pkg/types"
)

// Documented defaults for the temporal checks. Passing a zero or negative
// threshold selects the default.
const (
	DefaultMaxAgeHours             = 24.0
	DefaultExpectedFrequencyHours  = 1.0
	DefaultExpectedIntervalMinutes = 60.0
	DefaultBusinessStart           = 9
	DefaultBusinessEnd             = 17
)

// Freshness checks that the most recent timestamp in the column is within
// maxAgeHours of the current time. A missing timestamp column is a detected
// ERROR, not a fault, and so is a column with no non-null timestamps.
func Freshness(ds *dataset.Dataset, timestampColumn string, maxAgeHours float64) (types.CheckResult, error) {
	return freshnessAt(ds, timestampColumn, maxAgeHours, time.Now())
}

func freshnessAt(ds *dataset.Dataset, timestampColumn string, maxAgeHours float64, now time.Time) (types.CheckResult, error) {
	if maxAgeHours <= 0 {
		maxAgeHours = DefaultMaxAgeHours
	}
	col, ok := ds.Column(timestampColumn)
	if !ok {
		return missingTimestampColumn(ds, timestampColumn), nil
	}
	times, err := timeColumn(col)
	if err != nil {
		return types.CheckResult{}, err
	}
	if len(times) == 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Column %s has no timestamps to assess freshness", timestampColumn),
			types.Metadata{
				"timestamp_column": types.TextValue(timestampColumn),
				"record_count":     types.IntValue(int64(ds.RowCount())),
			}), nil
	}

	mostRecent := maxTime(times)
	ageHours := now.Sub(mostRecent).Hours()
	md := types.Metadata{
		"most_recent_timestamp": types.TextValue(mostRecent.UTC().Format(time.RFC3339)),
		"current_time":          types.TextValue(now.UTC().Format(time.RFC3339)),
		"age_hours":             types.FloatValue(ageHours),
		"max_age_hours":         types.FloatValue(maxAgeHours),
		"timestamp_column":      types.TextValue(timestampColumn),
	}

	if ageHours > maxAgeHours {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Data is %.1f hours old, exceeds maximum age of %v hours", ageHours, maxAgeHours),
			md), nil
	}
	return types.Pass(
		fmt.Sprintf("Data is fresh: %.1f hours old (within %v hour limit)", ageHours, maxAgeHours),
		md), nil
}

// UpdateFrequency checks that consecutive records arrive at roughly the
// expected cadence. The max gap between sorted consecutive timestamps may
// not exceed twice the expected frequency; a larger gap fails with WARN.
func UpdateFrequency(ds *dataset.Dataset, timestampColumn string, expectedFrequencyHours float64) (types.CheckResult, error) {
	if expectedFrequencyHours <= 0 {
		expectedFrequencyHours = DefaultExpectedFrequencyHours
	}
	col, ok := ds.Column(timestampColumn)
	if !ok {
		return missingTimestampColumn(ds, timestampColumn), nil
	}
	times, err := timeColumn(col)
	if err != nil {
		return types.CheckResult{}, err
	}

	deltas := consecutiveDeltas(times, time.Hour)
	if len(deltas) == 0 {
		return types.Fail(types.SeverityWarn,
			"Insufficient data to check update frequency",
			types.Metadata{
				"timestamp_column": types.TextValue(timestampColumn),
				"record_count":     types.IntValue(int64(ds.RowCount())),
			}), nil
	}

	avgFrequency := mean(deltas)
	maxGap := maxFloat(deltas)
	md := types.Metadata{
		"max_gap_hours":            types.FloatValue(maxGap),
		"avg_frequency_hours":      types.FloatValue(avgFrequency),
		"expected_frequency_hours": types.FloatValue(expectedFrequencyHours),
		"timestamp_column":         types.TextValue(timestampColumn),
		"record_count":             types.IntValue(int64(ds.RowCount())),
	}

	threshold := expectedFrequencyHours * 2
	if maxGap > threshold {
		return types.Fail(types.SeverityWarn,
			fmt.Sprintf("Large gap in updates detected: %.1f hours (expected: %v hours)", maxGap, expectedFrequencyHours),
			md), nil
	}
	return types.Pass(
		fmt.Sprintf("Update frequency is normal: avg %.1f hours, max gap %.1f hours", avgFrequency, maxGap),
		md), nil
}

// Continuity checks for gaps between consecutive records larger than 1.5
// times the expected interval. Gaps fail with WARN, reporting the count,
// largest and mean of the violating gaps.
func Continuity(ds *dataset.Dataset, timestampColumn string, expectedIntervalMinutes float64) (types.CheckResult, error) {
	if expectedIntervalMinutes <= 0 {
		expectedIntervalMinutes = DefaultExpectedIntervalMinutes
	}
	col, ok := ds.Column(timestampColumn)
	if !ok {
		return missingTimestampColumn(ds, timestampColumn), nil
	}
	times, err := timeColumn(col)
	if err != nil {
		return types.CheckResult{}, err
	}

	deltas := consecutiveDeltas(times, time.Minute)
	if len(deltas) == 0 {
		return types.Fail(types.SeverityWarn,
			"Insufficient data to check continuity",
			types.Metadata{
				"timestamp_column": types.TextValue(timestampColumn),
				"record_count":     types.IntValue(int64(ds.RowCount())),
			}), nil
	}

	tolerance := expectedIntervalMinutes * 1.5
	var gaps []float64
	for _, d := range deltas {
		if d > tolerance {
			gaps = append(gaps, d)
		}
	}

	if len(gaps) > 0 {
		return types.Fail(types.SeverityWarn,
			fmt.Sprintf("Found %d data gaps longer than %.1f minutes", len(gaps), tolerance),
			types.Metadata{
				"gap_count":                 types.IntValue(int64(len(gaps))),
				"largest_gap_minutes":       types.FloatValue(maxFloat(gaps)),
				"avg_gap_minutes":           types.FloatValue(mean(gaps)),
				"expected_interval_minutes": types.FloatValue(expectedIntervalMinutes),
				"tolerance_minutes":         types.FloatValue(tolerance),
				"timestamp_column":          types.TextValue(timestampColumn),
			}), nil
	}
	return types.Pass(
		fmt.Sprintf("Data continuity is good: no gaps larger than %.1f minutes", tolerance),
		types.Metadata{
			"expected_interval_minutes": types.FloatValue(expectedIntervalMinutes),
			"tolerance_minutes":         types.FloatValue(tolerance),
			"timestamp_column":          types.TextValue(timestampColumn),
			"record_count":              types.IntValue(int64(ds.RowCount())),
		}), nil
}

// BusinessHours reports how records distribute over business hours
// [businessStart, businessEnd) and weekends. It is informational and always
// passes on well-formed input. Passing 0,0 selects the 9-17 default window.
func BusinessHours(ds *dataset.Dataset, timestampColumn string, businessStart, businessEnd int) (types.CheckResult, error) {
	if businessStart == 0 && businessEnd == 0 {
		businessStart, businessEnd = DefaultBusinessStart, DefaultBusinessEnd
	}
	col, ok := ds.Column(timestampColumn)
	if !ok {
		return missingTimestampColumn(ds, timestampColumn), nil
	}
	times, err := timeColumn(col)
	if err != nil {
		return types.CheckResult{}, err
	}

	total := len(times)
	businessCount := 0
	weekendCount := 0
	for _, t := range times {
		hour := t.Hour()
		if hour >= businessStart && hour < businessEnd {
			businessCount++
		}
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendCount++
		}
	}

	businessPct := 0.0
	weekendPct := 0.0
	if total > 0 {
		businessPct = float64(businessCount) / float64(total) * 100
		weekendPct = float64(weekendCount) / float64(total) * 100
	}

	return types.Pass(
		fmt.Sprintf("Data distribution: %.1f%% during business hours, %.1f%% on weekends", businessPct, weekendPct),
		types.Metadata{
			"business_hours_count":      types.IntValue(int64(businessCount)),
			"business_hours_percentage": types.FloatValue(businessPct),
			"weekend_count":             types.IntValue(int64(weekendCount)),
			"weekend_percentage":        types.FloatValue(weekendPct),
			"total_count":               types.IntValue(int64(total)),
			"business_start":            types.IntValue(int64(businessStart)),
			"business_end":              types.IntValue(int64(businessEnd)),
			"timestamp_column":          types.TextValue(timestampColumn),
		}), nil
}

func missingTimestampColumn(ds *dataset.Dataset, name string) types.CheckResult {
	return types.Fail(types.SeverityError,
		fmt.Sprintf("Timestamp column '%s' not found in dataset", name),
		types.Metadata{
			"timestamp_column":  types.TextValue(name),
			"available_columns": types.StringsValue(ds.ColumnNames()),
		})
}

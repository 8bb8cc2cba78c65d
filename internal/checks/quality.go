// Package checks implements tabular data-quality checks. Every check is a
// pure function mapping (dataset, parameters) to a CheckResult; detected
// violations are failing results, while input-contract violations (missing
// columns, wrong column kinds) are returned as errors.
package checks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
	"github.com/alexanderjulianmartinez/table-watch/pkg/types"
)

// NoNulls checks that the named columns contain no null cells.
func NoNulls(ds *dataset.Dataset, columns []string) (types.CheckResult, error) {
	nullCounts := make(map[string]types.Value, len(columns))
	var failed []string
	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return types.CheckResult{}, &ColumnNotFoundError{Column: name, Available: ds.ColumnNames()}
		}
		count := int64(0)
		for _, cell := range col.Cells {
			if cell.Null {
				count++
			}
		}
		nullCounts[name] = types.IntValue(count)
		if count > 0 {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Found null values in columns: %s", strings.Join(failed, ", ")),
			types.Metadata{
				"failed_columns": types.StringsValue(failed),
				"null_counts":    types.MapValue(nullCounts),
			}), nil
	}
	return types.Pass(
		fmt.Sprintf("No null values found in %d columns", len(columns)),
		types.Metadata{
			"checked_columns": types.StringsValue(columns),
			"total_rows":      types.IntValue(int64(ds.RowCount())),
		}), nil
}

// UniqueValues checks that the named columns hold no duplicate values.
// Null cells count as ordinary duplicate-able values.
func UniqueValues(ds *dataset.Dataset, columns []string) (types.CheckResult, error) {
	duplicateCounts := make(map[string]types.Value, len(columns))
	var failed []string
	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return types.CheckResult{}, &ColumnNotFoundError{Column: name, Available: ds.ColumnNames()}
		}
		seen := make(map[string]bool, col.Len())
		duplicates := int64(0)
		for i := 0; i < col.Len(); i++ {
			key := col.Key(i)
			if seen[key] {
				duplicates++
			} else {
				seen[key] = true
			}
		}
		duplicateCounts[name] = types.IntValue(duplicates)
		if duplicates > 0 {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Found duplicate values in columns: %s", strings.Join(failed, ", ")),
			types.Metadata{
				"failed_columns":   types.StringsValue(failed),
				"duplicate_counts": types.MapValue(duplicateCounts),
			}), nil
	}
	return types.Pass(
		fmt.Sprintf("All values unique in %d columns", len(columns)),
		types.Metadata{
			"checked_columns": types.StringsValue(columns),
			"total_rows":      types.IntValue(int64(ds.RowCount())),
		}), nil
}

// ColumnValues checks that every distinct value in the column is a member of
// the allowed set. Null cells are skipped; null presence is NoNulls' job.
func ColumnValues(ds *dataset.Dataset, column string, allowedValues []string) (types.CheckResult, error) {
	col, ok := ds.Column(column)
	if !ok {
		return types.CheckResult{}, &ColumnNotFoundError{Column: column, Available: ds.ColumnNames()}
	}

	allowed := make(map[string]bool, len(allowedValues))
	for _, v := range allowedValues {
		allowed[v] = true
	}

	seen := make(map[string]bool)
	var distinct []string
	var invalid []string
	for i := 0; i < col.Len(); i++ {
		if col.Cells[i].Null {
			continue
		}
		v := col.Render(i)
		if seen[v] {
			continue
		}
		seen[v] = true
		distinct = append(distinct, v)
		if !allowed[v] {
			invalid = append(invalid, v)
		}
	}
	// Distinct values are reported in sorted order so the result does not
	// depend on the row order of the input.
	sort.Strings(distinct)
	sort.Strings(invalid)

	if len(invalid) > 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Found invalid values in column %s: %s", column, strings.Join(invalid, ", ")),
			types.Metadata{
				"column":         types.TextValue(column),
				"invalid_values": types.StringsValue(invalid),
				"allowed_values": types.StringsValue(allowedValues),
			}), nil
	}
	return types.Pass(
		fmt.Sprintf("All values in column %s are valid", column),
		types.Metadata{
			"column":         types.TextValue(column),
			"unique_values":  types.StringsValue(distinct),
			"allowed_values": types.StringsValue(allowedValues),
		}), nil
}

// NumericRange checks that the column's values fall inside the closed
// interval [minValue, maxValue]. Either bound may be nil. Both bounds are
// always evaluated and a failing result reports both violation counts
// rather than short-circuiting on the first violated bound.
func NumericRange(ds *dataset.Dataset, column string, minValue, maxValue *float64) (types.CheckResult, error) {
	col, ok := ds.Column(column)
	if !ok {
		return types.CheckResult{}, &ColumnNotFoundError{Column: column, Available: ds.ColumnNames()}
	}
	if col.Kind != dataset.KindInteger && col.Kind != dataset.KindFloat {
		return types.CheckResult{}, &TypeMismatchError{Column: column, Want: "numeric", Got: col.Kind}
	}

	var belowMin, aboveMax int64
	var actualMin, actualMax float64
	have := false
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Number(i)
		if !ok {
			continue
		}
		if !have || v < actualMin {
			actualMin = v
		}
		if !have || v > actualMax {
			actualMax = v
		}
		have = true
		if minValue != nil && v < *minValue {
			belowMin++
		}
		if maxValue != nil && v > *maxValue {
			aboveMax++
		}
	}

	md := types.Metadata{"column": types.TextValue(column)}
	if minValue != nil {
		md["min_value"] = types.FloatValue(*minValue)
	}
	if maxValue != nil {
		md["max_value"] = types.FloatValue(*maxValue)
	}
	if have {
		md["actual_min"] = types.FloatValue(actualMin)
		md["actual_max"] = types.FloatValue(actualMax)
	}

	if belowMin > 0 || aboveMax > 0 {
		md["below_min_count"] = types.IntValue(belowMin)
		md["above_max_count"] = types.IntValue(aboveMax)
		var parts []string
		if belowMin > 0 {
			parts = append(parts, fmt.Sprintf("%d values in column %s below minimum %v", belowMin, column, *minValue))
		}
		if aboveMax > 0 {
			parts = append(parts, fmt.Sprintf("%d values in column %s above maximum %v", aboveMax, column, *maxValue))
		}
		return types.Fail(types.SeverityError, strings.Join(parts, "; "), md), nil
	}
	return types.Pass(fmt.Sprintf("All values in column %s within expected range", column), md), nil
}

// DateRange checks that the column's timestamps fall inside the closed
// interval [minDate, maxDate]. Either bound may be nil. Like NumericRange,
// both bounds are evaluated and reported together.
func DateRange(ds *dataset.Dataset, column string, minDate, maxDate *time.Time) (types.CheckResult, error) {
	col, ok := ds.Column(column)
	if !ok {
		return types.CheckResult{}, &ColumnNotFoundError{Column: column, Available: ds.ColumnNames()}
	}
	times, err := timeColumn(col)
	if err != nil {
		return types.CheckResult{}, err
	}

	var beforeMin, afterMax int64
	for _, t := range times {
		if minDate != nil && t.Before(*minDate) {
			beforeMin++
		}
		if maxDate != nil && t.After(*maxDate) {
			afterMax++
		}
	}

	md := types.Metadata{"column": types.TextValue(column)}
	if minDate != nil {
		md["min_date"] = types.TextValue(minDate.UTC().Format(time.RFC3339))
	}
	if maxDate != nil {
		md["max_date"] = types.TextValue(maxDate.UTC().Format(time.RFC3339))
	}
	if len(times) > 0 {
		sorted := sortedTimes(times)
		md["actual_min"] = types.TextValue(sorted[0].UTC().Format(time.RFC3339))
		md["actual_max"] = types.TextValue(sorted[len(sorted)-1].UTC().Format(time.RFC3339))
	}

	if beforeMin > 0 || afterMax > 0 {
		md["before_min_count"] = types.IntValue(beforeMin)
		md["after_max_count"] = types.IntValue(afterMax)
		var parts []string
		if beforeMin > 0 {
			parts = append(parts, fmt.Sprintf("%d dates in column %s before minimum %s", beforeMin, column, minDate.UTC().Format(time.RFC3339)))
		}
		if afterMax > 0 {
			parts = append(parts, fmt.Sprintf("%d dates in column %s after maximum %s", afterMax, column, maxDate.UTC().Format(time.RFC3339)))
		}
		return types.Fail(types.SeverityError, strings.Join(parts, "; "), md), nil
	}
	return types.Pass(fmt.Sprintf("All dates in column %s within expected range", column), md), nil
}

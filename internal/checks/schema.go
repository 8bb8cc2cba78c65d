package checks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
	"github.com/alexanderjulianmartinez/table-watch/pkg/types"
)

// RowCount checks that the dataset has between minRows and maxRows rows.
// maxRows <= 0 means no upper bound.
func RowCount(ds *dataset.Dataset, minRows, maxRows int) types.CheckResult {
	rowCount := ds.RowCount()
	md := types.Metadata{
		"row_count": types.IntValue(int64(rowCount)),
		"min_rows":  types.IntValue(int64(minRows)),
	}
	if maxRows > 0 {
		md["max_rows"] = types.IntValue(int64(maxRows))
	}

	if rowCount < minRows {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Row count %d below minimum %d", rowCount, minRows), md)
	}
	if maxRows > 0 && rowCount > maxRows {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Row count %d above maximum %d", rowCount, maxRows), md)
	}
	return types.Pass(fmt.Sprintf("Row count %d within expected range", rowCount), md)
}

// RequiredColumns checks that every required column is present.
func RequiredColumns(ds *dataset.Dataset, required []string) types.CheckResult {
	var missing []string
	for _, name := range required {
		if !ds.HasColumn(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
			types.Metadata{
				"missing_columns":  types.StringsValue(missing),
				"required_columns": types.StringsValue(required),
				"actual_columns":   types.StringsValue(ds.ColumnNames()),
			})
	}
	return types.Pass(
		fmt.Sprintf("All %d required columns present", len(required)),
		types.Metadata{
			"required_columns": types.StringsValue(required),
			"actual_columns":   types.StringsValue(ds.ColumnNames()),
		})
}

// NoExtraColumns checks that the dataset has no columns outside the allowed
// set. Extra columns are an anomaly, not a blocker, so this fails with WARN.
func NoExtraColumns(ds *dataset.Dataset, allowed []string) types.CheckResult {
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}
	var extra []string
	for _, name := range ds.ColumnNames() {
		if !allowedSet[name] {
			extra = append(extra, name)
		}
	}

	if len(extra) > 0 {
		return types.Fail(types.SeverityWarn,
			fmt.Sprintf("Found unexpected columns: %s", strings.Join(extra, ", ")),
			types.Metadata{
				"extra_columns":   types.StringsValue(extra),
				"allowed_columns": types.StringsValue(allowed),
				"actual_columns":  types.StringsValue(ds.ColumnNames()),
			})
	}
	return types.Pass("No unexpected columns found",
		types.Metadata{
			"allowed_columns": types.StringsValue(allowed),
			"actual_columns":  types.StringsValue(ds.ColumnNames()),
		})
}

// ColumnOrder checks that the dataset's columns appear in the expected
// order. Both orders are first restricted to their common elements, so
// columns absent from either side are ignored.
func ColumnOrder(ds *dataset.Dataset, expectedOrder []string) types.CheckResult {
	var common []string
	for _, name := range expectedOrder {
		if ds.HasColumn(name) {
			common = append(common, name)
		}
	}
	expectedSet := make(map[string]bool, len(expectedOrder))
	for _, name := range expectedOrder {
		expectedSet[name] = true
	}
	var actualOrder []string
	for _, name := range ds.ColumnNames() {
		if expectedSet[name] {
			actualOrder = append(actualOrder, name)
		}
	}

	if !equalStrings(common, actualOrder) {
		return types.Fail(types.SeverityWarn,
			"Column order doesn't match expected order",
			types.Metadata{
				"expected_order": types.StringsValue(expectedOrder),
				"actual_order":   types.StringsValue(actualOrder),
				"common_columns": types.StringsValue(common),
			})
	}
	return types.Pass(
		fmt.Sprintf("Column order matches expected order for %d columns", len(common)),
		types.Metadata{
			"expected_order": types.StringsValue(expectedOrder),
			"actual_order":   types.StringsValue(actualOrder),
		})
}

// ColumnTypes checks that each named column has the expected kind. Columns
// absent from the dataset are skipped; presence is RequiredColumns' job.
// Mismatch messages are ordered by column name for deterministic output.
func ColumnTypes(ds *dataset.Dataset, expected map[string]dataset.Kind) types.CheckResult {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []string
	for _, name := range names {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if col.Kind != expected[name] {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %s, got %s", name, expected[name], col.Kind))
		}
	}

	expectedTypes := make(map[string]types.Value, len(expected))
	for name, kind := range expected {
		expectedTypes[name] = types.TextValue(string(kind))
	}
	actualTypes := make(map[string]types.Value)
	for _, col := range ds.Columns() {
		actualTypes[col.Name] = types.TextValue(string(col.Kind))
	}

	if len(mismatches) > 0 {
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Column type mismatches: %s", strings.Join(mismatches, "; ")),
			types.Metadata{
				"type_mismatches": types.StringsValue(mismatches),
				"expected_types":  types.MapValue(expectedTypes),
				"actual_types":    types.MapValue(actualTypes),
			})
	}
	return types.Pass(
		fmt.Sprintf("All %d column types match expectations", len(expected)),
		types.Metadata{
			"expected_types": types.MapValue(expectedTypes),
			"actual_types":   types.MapValue(actualTypes),
		})
}

// SchemaSpec declares the expected shape of a dataset. Nil fields are not
// checked.
type SchemaSpec struct {
	RequiredColumns []string
	ColumnTypes     map[string]dataset.Kind
	AllowedColumns  []string
	ColumnOrder     []string
}

// ValidateSchema runs the sub-check for each field present in the spec, in
// declaration order, without short-circuiting, and aggregates the failures
// into a single result. The aggregate passes iff every sub-check passed;
// its metadata carries every sub-result, the collected issue descriptions,
// and a snapshot of the actual schema.
func ValidateSchema(ds *dataset.Dataset, spec SchemaSpec) types.CheckResult {
	var sub []types.CheckResult
	if spec.RequiredColumns != nil {
		sub = append(sub, RequiredColumns(ds, spec.RequiredColumns))
	}
	if spec.ColumnTypes != nil {
		sub = append(sub, ColumnTypes(ds, spec.ColumnTypes))
	}
	if spec.AllowedColumns != nil {
		sub = append(sub, NoExtraColumns(ds, spec.AllowedColumns))
	}
	if spec.ColumnOrder != nil {
		sub = append(sub, ColumnOrder(ds, spec.ColumnOrder))
	}

	var issues []string
	subResults := make([]types.Value, 0, len(sub))
	for _, r := range sub {
		if !r.Passed {
			issues = append(issues, r.Description)
		}
		subResults = append(subResults, types.MapValue(map[string]types.Value{
			"passed":      types.BoolValue(r.Passed),
			"severity":    types.TextValue(string(r.Severity)),
			"description": types.TextValue(r.Description),
		}))
	}

	md := types.Metadata{
		"sub_results":       types.ListValue(subResults...),
		"schema_definition": schemaDefinition(spec),
		"actual_schema":     schemaSnapshot(ds),
	}
	if len(issues) > 0 {
		md["schema_issues"] = types.StringsValue(issues)
		return types.Fail(types.SeverityError,
			fmt.Sprintf("Schema validation failed: %s", strings.Join(issues, "; ")), md)
	}
	return types.Pass("Schema validation passed", md)
}

func schemaDefinition(spec SchemaSpec) types.Value {
	def := make(map[string]types.Value)
	if spec.RequiredColumns != nil {
		def["required_columns"] = types.StringsValue(spec.RequiredColumns)
	}
	if spec.ColumnTypes != nil {
		kinds := make(map[string]types.Value, len(spec.ColumnTypes))
		for name, kind := range spec.ColumnTypes {
			kinds[name] = types.TextValue(string(kind))
		}
		def["column_types"] = types.MapValue(kinds)
	}
	if spec.AllowedColumns != nil {
		def["allowed_columns"] = types.StringsValue(spec.AllowedColumns)
	}
	if spec.ColumnOrder != nil {
		def["column_order"] = types.StringsValue(spec.ColumnOrder)
	}
	return types.MapValue(def)
}

func schemaSnapshot(ds *dataset.Dataset) types.Value {
	kinds := make(map[string]types.Value)
	for _, col := range ds.Columns() {
		kinds[col.Name] = types.TextValue(string(col.Kind))
	}
	return types.MapValue(map[string]types.Value{
		"columns": types.StringsValue(ds.ColumnNames()),
		"types":   types.MapValue(kinds),
		"shape": types.ListValue(
			types.IntValue(int64(ds.RowCount())),
			types.IntValue(int64(len(ds.Columns()))),
		),
	})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

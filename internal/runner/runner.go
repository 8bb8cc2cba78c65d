// Package runner applies a suite configuration to datasets loaded from a
// source and aggregates the outcomes into a run report.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/table-watch/internal/checks"
	"github.com/alexanderjulianmartinez/table-watch/internal/config"
	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
	"github.com/alexanderjulianmartinez/table-watch/pkg/types"
)

// Source loads a named table into an in-memory dataset.
type Source interface {
	Load(ctx context.Context, table string) (*dataset.Dataset, error)
}

// Sink receives the finished run report.
type Sink interface {
	Publish(ctx context.Context, report *Report) error
}

// CheckOutcome is one check applied to one table. Either Result is set, or
// Err carries the fault that prevented the check from producing a verdict.
type CheckOutcome struct {
	Table  string             `json:"table"`
	Check  string             `json:"check"`
	Result *types.CheckResult `json:"result,omitempty"`
	Err    string             `json:"error,omitempty"`
}

type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Outcomes   []CheckOutcome `json:"outcomes"`
}

// Failed reports whether the run should block downstream use: any fault, or
// any failed check with ERROR severity. WARN failures do not block.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Err != "" {
			return true
		}
		if o.Result != nil && !o.Result.Passed && o.Result.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

type Runner struct {
	source Source
	sink   Sink
}

// New builds a runner. sink may be nil when no report publishing is wanted.
func New(source Source, sink Sink) *Runner {
	return &Runner{source: source, sink: sink}
}

// Run loads each configured dataset and applies its checks in order. A
// check fault is recorded as its own outcome and never aborts sibling
// checks; a load fault records one outcome and skips that dataset.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	for _, dc := range cfg.Datasets {
		ds, err := r.source.Load(ctx, dc.Table)
		if err != nil {
			report.Outcomes = append(report.Outcomes, CheckOutcome{
				Table: dc.Table,
				Check: "load",
				Err:   err.Error(),
			})
			continue
		}
		for _, cc := range dc.Checks {
			result, err := runCheck(ds, cc)
			if err != nil {
				report.Outcomes = append(report.Outcomes, CheckOutcome{
					Table: dc.Table,
					Check: cc.Type,
					Err:   err.Error(),
				})
				continue
			}
			report.Outcomes = append(report.Outcomes, CheckOutcome{
				Table:  dc.Table,
				Check:  cc.Type,
				Result: &result,
			})
		}
	}

	report.FinishedAt = time.Now()
	if r.sink != nil {
		if err := r.sink.Publish(ctx, report); err != nil {
			return report, fmt.Errorf("publish report: %w", err)
		}
	}
	return report, nil
}

func runCheck(ds *dataset.Dataset, cc config.CheckConfig) (types.CheckResult, error) {
	switch cc.Type {
	case config.CheckNoNulls:
		return checks.NoNulls(ds, cc.Columns)
	case config.CheckUniqueValues:
		return checks.UniqueValues(ds, cc.Columns)
	case config.CheckColumnValues:
		return checks.ColumnValues(ds, cc.Column, cc.AllowedValues)
	case config.CheckNumericRange:
		return checks.NumericRange(ds, cc.Column, cc.Min, cc.Max)
	case config.CheckDateRange:
		var minDate, maxDate *time.Time
		if cc.MinDate != "" {
			t, err := checks.ParseTimestamp(cc.MinDate)
			if err != nil {
				return types.CheckResult{}, err
			}
			minDate = &t
		}
		if cc.MaxDate != "" {
			t, err := checks.ParseTimestamp(cc.MaxDate)
			if err != nil {
				return types.CheckResult{}, err
			}
			maxDate = &t
		}
		return checks.DateRange(ds, cc.Column, minDate, maxDate)
	case config.CheckRowCount:
		minRows := 1
		if cc.MinRows != nil {
			minRows = *cc.MinRows
		}
		return checks.RowCount(ds, minRows, cc.MaxRows), nil
	case config.CheckRequiredColumns:
		return checks.RequiredColumns(ds, cc.Columns), nil
	case config.CheckNoExtraColumns:
		return checks.NoExtraColumns(ds, cc.Columns), nil
	case config.CheckColumnOrder:
		return checks.ColumnOrder(ds, cc.Columns), nil
	case config.CheckFreshness:
		return checks.Freshness(ds, cc.TimestampColumn, cc.MaxAgeHours)
	case config.CheckUpdateFrequency:
		return checks.UpdateFrequency(ds, cc.TimestampColumn, cc.ExpectedFrequencyHours)
	case config.CheckContinuity:
		return checks.Continuity(ds, cc.TimestampColumn, cc.ExpectedIntervalMinutes)
	case config.CheckBusinessHours:
		start, end := checks.DefaultBusinessStart, checks.DefaultBusinessEnd
		if cc.BusinessStart != nil {
			start = *cc.BusinessStart
		}
		if cc.BusinessEnd != nil {
			end = *cc.BusinessEnd
		}
		return checks.BusinessHours(ds, cc.TimestampColumn, start, end)
	case config.CheckSchema:
		spec := checks.SchemaSpec{
			RequiredColumns: cc.RequiredColumns,
			AllowedColumns:  cc.AllowedColumns,
			ColumnOrder:     cc.ColumnOrder,
		}
		if cc.ColumnTypes != nil {
			kinds := make(map[string]dataset.Kind, len(cc.ColumnTypes))
			for name, s := range cc.ColumnTypes {
				kind, err := dataset.ParseKind(s)
				if err != nil {
					return types.CheckResult{}, err
				}
				kinds[name] = kind
			}
			spec.ColumnTypes = kinds
		}
		return checks.ValidateSchema(ds, spec), nil
	}
	return types.CheckResult{}, fmt.Errorf("unknown check type %q", cc.Type)
}

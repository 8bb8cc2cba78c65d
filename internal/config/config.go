package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/table-watch/internal/checks"
	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
)

// Check type names accepted in suite configs.
const (
	CheckNoNulls         = "no_nulls"
	CheckUniqueValues    = "unique_values"
	CheckColumnValues    = "column_values"
	CheckNumericRange    = "numeric_range"
	CheckDateRange       = "date_range"
	CheckRowCount        = "row_count"
	CheckRequiredColumns = "required_columns"
	CheckNoExtraColumns  = "no_extra_columns"
	CheckColumnOrder     = "column_order"
	CheckFreshness       = "freshness"
	CheckUpdateFrequency = "update_frequency"
	CheckContinuity      = "continuity"
	CheckBusinessHours   = "business_hours"
	CheckSchema          = "schema"
)

type Config struct {
	Source   SourceConfig    `yaml:"source"`
	Sink     *SinkConfig     `yaml:"sink,omitempty"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

type SourceConfig struct {
	Type   string `yaml:"type"`
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
}

type SinkConfig struct {
	Type    string   `yaml:"type"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type DatasetConfig struct {
	Table  string        `yaml:"table"`
	Checks []CheckConfig `yaml:"checks"`
}

// CheckConfig holds the union of all check parameters; validate enforces
// the fields each check type requires and fills documented defaults.
type CheckConfig struct {
	Type string `yaml:"type"`

	Columns       []string `yaml:"columns,omitempty"`
	Column        string   `yaml:"column,omitempty"`
	AllowedValues []string `yaml:"allowedValues,omitempty"`

	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	MinDate string   `yaml:"minDate,omitempty"`
	MaxDate string   `yaml:"maxDate,omitempty"`

	MinRows *int `yaml:"minRows,omitempty"`
	MaxRows int  `yaml:"maxRows,omitempty"`

	TimestampColumn         string  `yaml:"timestampColumn,omitempty"`
	MaxAgeHours             float64 `yaml:"maxAgeHours,omitempty"`
	ExpectedFrequencyHours  float64 `yaml:"expectedFrequencyHours,omitempty"`
	ExpectedIntervalMinutes float64 `yaml:"expectedIntervalMinutes,omitempty"`
	BusinessStart           *int    `yaml:"businessStart,omitempty"`
	BusinessEnd             *int    `yaml:"businessEnd,omitempty"`

	RequiredColumns []string          `yaml:"requiredColumns,omitempty"`
	ColumnTypes     map[string]string `yaml:"columnTypes,omitempty"`
	AllowedColumns  []string          `yaml:"allowedColumns,omitempty"`
	ColumnOrder     []string          `yaml:"columnOrder,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Source.Type != "mysql" {
		return errors.New("source.type must be mysql")
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if c.Source.Schema == "" {
		return errors.New("source.schema is required")
	}
	if c.Sink != nil {
		if c.Sink.Type != "kafka" {
			return errors.New("sink.type must be kafka")
		}
		if len(c.Sink.Brokers) == 0 {
			return errors.New("sink.brokers is required")
		}
		if c.Sink.Topic == "" {
			return errors.New("sink.topic is required")
		}
	}
	if len(c.Datasets) == 0 {
		return errors.New("at least one dataset is required")
	}
	for di := range c.Datasets {
		d := &c.Datasets[di]
		if d.Table == "" {
			return errors.New("dataset.table is required")
		}
		if len(d.Checks) == 0 {
			return fmt.Errorf("dataset %s must define at least one check", d.Table)
		}
		for ci := range d.Checks {
			if err := d.Checks[ci].validate(); err != nil {
				return fmt.Errorf("dataset %s check %d: %w", d.Table, ci, err)
			}
		}
	}
	return nil
}

func (cc *CheckConfig) validate() error {
	switch cc.Type {
	case CheckNoNulls, CheckUniqueValues, CheckRequiredColumns, CheckNoExtraColumns, CheckColumnOrder:
		if len(cc.Columns) == 0 {
			return fmt.Errorf("%s requires columns", cc.Type)
		}
	case CheckColumnValues:
		if cc.Column == "" {
			return errors.New("column_values requires column")
		}
		if len(cc.AllowedValues) == 0 {
			return errors.New("column_values requires allowedValues")
		}
	case CheckNumericRange:
		if cc.Column == "" {
			return errors.New("numeric_range requires column")
		}
		if cc.Min == nil && cc.Max == nil {
			return errors.New("numeric_range requires min or max")
		}
	case CheckDateRange:
		if cc.Column == "" {
			return errors.New("date_range requires column")
		}
		if cc.MinDate == "" && cc.MaxDate == "" {
			return errors.New("date_range requires minDate or maxDate")
		}
		if cc.MinDate != "" {
			if _, err := checks.ParseTimestamp(cc.MinDate); err != nil {
				return fmt.Errorf("date_range minDate: %w", err)
			}
		}
		if cc.MaxDate != "" {
			if _, err := checks.ParseTimestamp(cc.MaxDate); err != nil {
				return fmt.Errorf("date_range maxDate: %w", err)
			}
		}
	case CheckRowCount:
		if cc.MinRows == nil {
			minRows := 1
			cc.MinRows = &minRows
		}
		if *cc.MinRows < 0 {
			return errors.New("row_count minRows must not be negative")
		}
		if cc.MaxRows > 0 && cc.MaxRows < *cc.MinRows {
			return errors.New("row_count maxRows must not be below minRows")
		}
	case CheckFreshness:
		if cc.TimestampColumn == "" {
			return errors.New("freshness requires timestampColumn")
		}
		if cc.MaxAgeHours <= 0 {
			cc.MaxAgeHours = checks.DefaultMaxAgeHours
		}
	case CheckUpdateFrequency:
		if cc.TimestampColumn == "" {
			return errors.New("update_frequency requires timestampColumn")
		}
		if cc.ExpectedFrequencyHours <= 0 {
			cc.ExpectedFrequencyHours = checks.DefaultExpectedFrequencyHours
		}
	case CheckContinuity:
		if cc.TimestampColumn == "" {
			return errors.New("continuity requires timestampColumn")
		}
		if cc.ExpectedIntervalMinutes <= 0 {
			cc.ExpectedIntervalMinutes = checks.DefaultExpectedIntervalMinutes
		}
	case CheckBusinessHours:
		if cc.TimestampColumn == "" {
			return errors.New("business_hours requires timestampColumn")
		}
		if cc.BusinessStart == nil {
			start := checks.DefaultBusinessStart
			cc.BusinessStart = &start
		}
		if cc.BusinessEnd == nil {
			end := checks.DefaultBusinessEnd
			cc.BusinessEnd = &end
		}
		if *cc.BusinessStart < 0 || *cc.BusinessStart > 23 {
			return errors.New("business_hours businessStart must be within 0-23")
		}
		if *cc.BusinessEnd < 1 || *cc.BusinessEnd > 24 {
			return errors.New("business_hours businessEnd must be within 1-24")
		}
		if *cc.BusinessEnd <= *cc.BusinessStart {
			return errors.New("business_hours businessEnd must be after businessStart")
		}
	case CheckSchema:
		if cc.RequiredColumns == nil && cc.ColumnTypes == nil && cc.AllowedColumns == nil && cc.ColumnOrder == nil {
			return errors.New("schema requires at least one of requiredColumns, columnTypes, allowedColumns, columnOrder")
		}
		for name, kind := range cc.ColumnTypes {
			if _, err := dataset.ParseKind(kind); err != nil {
				return fmt.Errorf("schema columnTypes for %s: %w", name, err)
			}
		}
	default:
		return fmt.Errorf("unknown check type %q", cc.Type)
	}
	return nil
}

package types

// Severity classifies how a check outcome should be treated downstream.
// ERROR means the dataset is invalid for downstream use, WARN is an anomaly
// worth surfacing but not necessarily blocking, INFO is observational only.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// CheckResult is the verdict returned by every check. It is created once per
// invocation and never mutated afterwards.
type CheckResult struct {
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

// Pass builds a passing, informational result.
func Pass(description string, md Metadata) CheckResult {
	return CheckResult{
		Passed:      true,
		Severity:    SeverityInfo,
		Description: description,
		Metadata:    md,
	}
}

// Fail builds a failing result. A failed check is never informational, so
// SeverityInfo (or an empty severity) is promoted to SeverityError.
func Fail(severity Severity, description string, md Metadata) CheckResult {
	if severity != SeverityWarn && severity != SeverityError {
		severity = SeverityError
	}
	return CheckResult{
		Passed:      false,
		Severity:    severity,
		Description: description,
		Metadata:    md,
	}
}

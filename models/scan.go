package models

// FallbackReason is the single reason carried by a synthesized offline result.
const FallbackReason = "API Error - Could not scan"

// OfflineAdvice is the action advice carried by a synthesized offline result.
const OfflineAdvice = "System offline. Please try again."

// ScanResult is the outcome of one scan attempt. It is either derived from a
// service response in full, or a fallback built by NewFallbackScanResult.
type ScanResult struct {
	QueriedValue    string         `json:"value"            yaml:"value"`
	RiskScore       int            `json:"risk_score"       yaml:"risk_score"`
	Level           RiskLevel      `json:"level"            yaml:"level"`
	ReportCount     int            `json:"report_count"     yaml:"report_count"`
	Reports         []ReportRecord `json:"reports"          yaml:"reports"`
	ConfidenceScore int            `json:"confidence_score" yaml:"confidence_score"`
	Reasons         []string       `json:"reasons"          yaml:"reasons"`
	ActionAdvice    string         `json:"action_advice"    yaml:"action_advice"`
	ScanID          string         `json:"scan_id,omitempty" yaml:"scan_id,omitempty"`
	// Fallback is set only on results synthesized after a failed scan.
	Fallback bool `json:"fallback" yaml:"fallback"`
}

// NewFallbackScanResult builds the clearly-labelled offline result shown when
// the scan endpoint cannot be reached or answers with an error.
func NewFallbackScanResult(query string) ScanResult {
	return ScanResult{
		QueriedValue:    query,
		RiskScore:       0,
		Level:           RiskSafe,
		ReportCount:     0,
		Reports:         []ReportRecord{},
		ConfidenceScore: 0,
		Reasons:         []string{FallbackReason},
		ActionAdvice:    OfflineAdvice,
		Fallback:        true,
	}
}

// Status is the short verdict shown next to the counters.
func (r ScanResult) Status() string {
	if r.Fallback {
		return "Offline"
	}
	if r.Level == RiskSafe {
		return "Verified"
	}
	return "Flagged"
}

package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CosmoTheDev/scamshield/models"
)

// Endpoint paths of the ScamShield backend.
const (
	pathScan    = "/api/v1/scan"
	pathReports = "/api/v1/reports"
	pathRecent  = "/api/v1/reports/recent"
	pathStats   = "/api/v1/stats"
)

// scanResponse is the body of GET /api/v1/scan.
type scanResponse struct {
	RiskScore       *int            `json:"risk_score"`
	Level           *string         `json:"level"`
	ReportCount     int             `json:"report_count"`
	Reports         []reportPayload `json:"reports"`
	ConfidenceScore int             `json:"confidence_score"`
	Reasons         []string        `json:"reasons"`
	ActionAdvice    string          `json:"action_advice"`
	ScanID          json.RawMessage `json:"scan_id"`
}

// reportPayload is one element of GET /api/v1/reports/recent and of
// scanResponse.Reports.
type reportPayload struct {
	ScammerIdentifier *string  `json:"scammer_identifier"`
	Category          string   `json:"category"`
	Description       *string  `json:"description"`
	CreatedAt         *string  `json:"created_at"`
	EvidenceURLs      []string `json:"evidence_urls"`
}

// reportRequest is the body of POST /api/v1/reports.
type reportRequest struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// statsResponse is the body of GET /api/v1/stats.
type statsResponse struct {
	TotalReports *int `json:"total_reports"`
	Categories   []struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	} `json:"categories"`
	Trend []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"trend"`
}

// timestampLayouts are tried in order. The backend writes naive UTC
// timestamps (no zone) for freshly inserted rows.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

func (p reportPayload) toModel(endpoint string, idx int) (models.ReportRecord, error) {
	field := func(name string) string { return fmt.Sprintf("[%d].%s", idx, name) }
	if p.ScammerIdentifier == nil {
		return models.ReportRecord{}, &DecodeError{Endpoint: endpoint, Field: field("scammer_identifier"), Err: errMissing}
	}
	if p.CreatedAt == nil {
		return models.ReportRecord{}, &DecodeError{Endpoint: endpoint, Field: field("created_at"), Err: errMissing}
	}
	ts, err := parseTimestamp(*p.CreatedAt)
	if err != nil {
		return models.ReportRecord{}, &DecodeError{Endpoint: endpoint, Field: field("created_at"), Err: err}
	}
	rec := models.ReportRecord{
		ScammerIdentifier: *p.ScammerIdentifier,
		Category:          models.Category(strings.ToLower(p.Category)),
		CreatedAt:         ts,
		EvidenceURLs:      p.EvidenceURLs,
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	return rec, nil
}

func toRecords(endpoint string, payloads []reportPayload) ([]models.ReportRecord, error) {
	out := make([]models.ReportRecord, 0, len(payloads))
	for i, p := range payloads {
		rec, err := p.toModel(endpoint, i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r scanResponse) toModel(query string) (*models.ScanResult, error) {
	if r.RiskScore == nil {
		return nil, &DecodeError{Endpoint: pathScan, Field: "risk_score", Err: errMissing}
	}
	if *r.RiskScore < 0 || *r.RiskScore > 100 {
		return nil, &DecodeError{Endpoint: pathScan, Field: "risk_score", Err: fmt.Errorf("%w: %d", errOutOfRange, *r.RiskScore)}
	}
	if r.Level == nil {
		return nil, &DecodeError{Endpoint: pathScan, Field: "level", Err: errMissing}
	}
	level := models.RiskLevel(*r.Level)
	if !level.Valid() {
		return nil, &DecodeError{Endpoint: pathScan, Field: "level", Err: fmt.Errorf("unknown risk level %q", *r.Level)}
	}
	if r.ReportCount < 0 {
		return nil, &DecodeError{Endpoint: pathScan, Field: "report_count", Err: fmt.Errorf("%w: %d", errOutOfRange, r.ReportCount)}
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 100 {
		return nil, &DecodeError{Endpoint: pathScan, Field: "confidence_score", Err: fmt.Errorf("%w: %d", errOutOfRange, r.ConfidenceScore)}
	}
	reports, err := toRecords(pathScan+" reports", r.Reports)
	if err != nil {
		return nil, err
	}
	scanID, err := decodeScanID(r.ScanID)
	if err != nil {
		return nil, &DecodeError{Endpoint: pathScan, Field: "scan_id", Err: err}
	}
	reasons := r.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &models.ScanResult{
		QueriedValue:    query,
		RiskScore:       *r.RiskScore,
		Level:           level,
		ReportCount:     r.ReportCount,
		Reports:         reports,
		ConfidenceScore: r.ConfidenceScore,
		Reasons:         reasons,
		ActionAdvice:    r.ActionAdvice,
		ScanID:          scanID,
	}, nil
}

// decodeScanID accepts a JSON string or number; null or absent yields "".
func decodeScanID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected string or number, got %s", string(raw))
}

func (r statsResponse) toModel() (*models.TrendsSnapshot, error) {
	if r.TotalReports == nil {
		return nil, &DecodeError{Endpoint: pathStats, Field: "total_reports", Err: errMissing}
	}
	if *r.TotalReports < 0 {
		return nil, &DecodeError{Endpoint: pathStats, Field: "total_reports", Err: fmt.Errorf("%w: %d", errOutOfRange, *r.TotalReports)}
	}
	snap := &models.TrendsSnapshot{
		TotalReports: *r.TotalReports,
		Categories:   make([]models.CategoryCount, 0, len(r.Categories)),
		Trend:        make([]models.TrendPoint, 0, len(r.Trend)),
	}
	for i, c := range r.Categories {
		if c.Value < 0 {
			return nil, &DecodeError{Endpoint: pathStats, Field: fmt.Sprintf("categories[%d].value", i), Err: fmt.Errorf("%w: %d", errOutOfRange, c.Value)}
		}
		snap.Categories = append(snap.Categories, models.CategoryCount{Name: c.Name, Value: c.Value})
	}
	for i, p := range r.Trend {
		if _, err := time.Parse(models.DateLayout, p.Date); err != nil {
			return nil, &DecodeError{Endpoint: pathStats, Field: fmt.Sprintf("trend[%d].date", i), Err: err}
		}
		if p.Count < 0 {
			return nil, &DecodeError{Endpoint: pathStats, Field: fmt.Sprintf("trend[%d].count", i), Err: fmt.Errorf("%w: %d", errOutOfRange, p.Count)}
		}
		snap.Trend = append(snap.Trend, models.TrendPoint{Date: p.Date, Count: p.Count})
	}
	return snap, nil
}

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NoDescription is displayed in place of an empty report description.
const NoDescription = "No description provided."

// ReportRecord is one community submission as returned by the backend.
// Records are never modified after they are fetched.
type ReportRecord struct {
	ScammerIdentifier string    `json:"scammer_identifier"      yaml:"scammer_identifier"`
	Category          Category  `json:"category"                yaml:"category"`
	Description       string    `json:"description"             yaml:"description"`
	CreatedAt         time.Time `json:"created_at"              yaml:"created_at"`
	EvidenceURLs      []string  `json:"evidence_urls,omitempty" yaml:"evidence_urls,omitempty"`
}

// DisplayDescription returns the description or a placeholder when empty.
func (r ReportRecord) DisplayDescription() string {
	if strings.TrimSpace(r.Description) == "" {
		return NoDescription
	}
	return r.Description
}

// ReportDraft is the user-editable content of the report form.
type ReportDraft struct {
	Value       string   `json:"value"`
	Type        Category `json:"type"`
	Description string   `json:"description"`
}

// Draft validation errors.
var (
	ErrDraftValueRequired       = errors.New("scammer details are required")
	ErrDraftDescriptionRequired = errors.New("description is required")
)

// NewReportDraft returns the empty draft a fresh form starts with.
func NewReportDraft() ReportDraft {
	return ReportDraft{Type: CategoryPhone}
}

// IsEmpty reports whether d equals the empty draft.
func (d ReportDraft) IsEmpty() bool {
	return d == NewReportDraft()
}

// Validate enforces the required-field rules of the report form.
func (d ReportDraft) Validate() error {
	if strings.TrimSpace(d.Value) == "" {
		return ErrDraftValueRequired
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrDraftDescriptionRequired
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownCategory, d.Type)
	}
	return nil
}

// Matches reports whether record is the backend's echo of this draft.
func (d ReportDraft) Matches(record ReportRecord) bool {
	return record.ScammerIdentifier == d.Value &&
		record.Category == d.Type &&
		record.Description == d.Description
}

package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForScoreBreakpoints(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskSafe},
		{29, RiskSafe},
		{30, RiskCaution},
		{69, RiskCaution},
		{70, RiskCritical},
		{100, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestFallbackScanResult(t *testing.T) {
	r := NewFallbackScanResult("+91 9876543210")

	assert.True(t, r.Fallback)
	assert.Equal(t, "+91 9876543210", r.QueriedValue)
	assert.Equal(t, 0, r.RiskScore)
	assert.Equal(t, RiskSafe, r.Level)
	assert.Equal(t, 0, r.ReportCount)
	assert.Empty(t, r.Reports)
	assert.Equal(t, 0, r.ConfidenceScore)
	assert.Equal(t, []string{FallbackReason}, r.Reasons)
	assert.Empty(t, r.ScanID)
	assert.Equal(t, "Offline", r.Status())
}

func TestAverageDaily(t *testing.T) {
	snap := TrendsSnapshot{}
	for i := 1; i <= 7; i++ {
		snap.Trend = append(snap.Trend, TrendPoint{Date: fmt.Sprintf("2026-01-%02d", i), Count: i})
	}
	assert.InDelta(t, 4.0, snap.AverageDaily(), 1e-9)
	assert.Equal(t, "4.0", snap.AverageDailyString())

	// Only the trailing seven entries count.
	snap.Trend = append([]TrendPoint{{Date: "2025-12-31", Count: 700}}, snap.Trend...)
	assert.InDelta(t, 4.0, snap.AverageDaily(), 1e-9)

	// Short series are still divided by seven.
	short := TrendsSnapshot{Trend: []TrendPoint{{Date: "2026-01-01", Count: 7}}}
	assert.Equal(t, "1.0", short.AverageDailyString())

	assert.Equal(t, "0.0", TrendsSnapshot{}.AverageDailyString())
}

func TestCategoryShare(t *testing.T) {
	snap := TrendsSnapshot{Categories: []CategoryCount{{Name: "Phone", Value: 3}, {Name: "Url", Value: 1}}}
	assert.InDelta(t, 0.75, snap.CategoryShare(0), 1e-9)
	assert.InDelta(t, 0.25, snap.CategoryShare(1), 1e-9)
	assert.Zero(t, snap.CategoryShare(5))
}

func TestFilterTitleMultiByteCategory(t *testing.T) {
	assert.Equal(t, "Category: Éclair Offers", ByCategory("éclair_offers").Title())
	assert.Equal(t, "Category: Ünlu", ByCategory("ÜNLU").Title())
}

func TestFilterSelection(t *testing.T) {
	f := ByCategory("Message_Text")
	require.NoError(t, f.Validate())
	assert.Equal(t, "message_text", f.Category)
	assert.Equal(t, "Category: Message Text", f.Title())

	d, err := ByDate("2026-10-16")
	require.NoError(t, err)
	require.NoError(t, d.Validate())
	assert.Equal(t, "Reports on 2026-10-16", d.Title())

	_, err = ByDate("16/10/2026")
	assert.Error(t, err)

	assert.ErrorIs(t, FilterSelection{}.Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, FilterSelection{Category: "upi", Date: "2026-10-16"}.Validate(), ErrInvalidFilter)
	assert.True(t, FilterSelection{}.IsZero())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" UPI ")
	require.NoError(t, err)
	assert.Equal(t, CategoryUPI, c)

	_, err = ParseCategory("email")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestDetectCategory(t *testing.T) {
	tests := map[string]Category{
		"scammer@okaxis":             CategoryUPI,
		"+91 98765 43210":            CategoryPhone,
		"9876543210":                 CategoryPhone,
		"https://free-prize.example": CategoryURL,
		"www.kyc-update.example":     CategoryURL,
		"Your parcel is on hold":     CategoryMessageText,
	}
	for value, want := range tests {
		assert.Equal(t, want, DetectCategory(value), value)
	}
}

func TestReportDraftValidate(t *testing.T) {
	d := NewReportDraft()
	assert.True(t, d.IsEmpty())
	assert.Equal(t, CategoryPhone, d.Type)
	assert.ErrorIs(t, d.Validate(), ErrDraftValueRequired)

	d.Value = "+919999999999"
	assert.ErrorIs(t, d.Validate(), ErrDraftDescriptionRequired)

	d.Description = "Asked for OTP"
	assert.NoError(t, d.Validate())

	d.Type = "email"
	assert.ErrorIs(t, d.Validate(), ErrUnknownCategory)
}

func TestReportDraftMatchesEcho(t *testing.T) {
	d := ReportDraft{Value: "fraud@ybl", Type: CategoryUPI, Description: "Fake refund"}
	echo := ReportRecord{
		ScammerIdentifier: "fraud@ybl",
		Category:          CategoryUPI,
		Description:       "Fake refund",
		CreatedAt:         time.Now(),
	}
	assert.True(t, d.Matches(echo))

	echo.Category = CategoryPhone
	assert.False(t, d.Matches(echo))
}

func TestDisplayDescription(t *testing.T) {
	assert.Equal(t, NoDescription, ReportRecord{Description: "  "}.DisplayDescription())
	assert.Equal(t, "Called twice", ReportRecord{Description: "Called twice"}.DisplayDescription())
}

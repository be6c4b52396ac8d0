package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the layout of trend dates and date filters.
const DateLayout = "2006-01-02"

// averageWindow is the number of trailing trend entries averaged by AverageDaily.
const averageWindow = 7

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Name  string `json:"name"  yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// TrendPoint is the number of reports filed on one day.
type TrendPoint struct {
	Date  string `json:"date"  yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// TrendsSnapshot holds the aggregate statistics behind the trends view.
// Category values are not reconciled against TotalReports.
type TrendsSnapshot struct {
	TotalReports int             `json:"total_reports" yaml:"total_reports"`
	Categories   []CategoryCount `json:"categories"    yaml:"categories"`
	Trend        []TrendPoint    `json:"trend"         yaml:"trend"`
}

// AverageDaily is the sum of the last seven trend counts divided by seven.
func (s TrendsSnapshot) AverageDaily() float64 {
	points := s.Trend
	if len(points) > averageWindow {
		points = points[len(points)-averageWindow:]
	}
	sum := 0
	for _, p := range points {
		sum += p.Count
	}
	return float64(sum) / averageWindow
}

// AverageDailyString renders AverageDaily with one decimal place.
func (s TrendsSnapshot) AverageDailyString() string {
	return fmt.Sprintf("%.1f", s.AverageDaily())
}

// CategoryShare returns the fraction of the category total held by slice i.
func (s TrendsSnapshot) CategoryShare(i int) float64 {
	if i < 0 || i >= len(s.Categories) {
		return 0
	}
	total := 0
	for _, c := range s.Categories {
		total += c.Value
	}
	if total == 0 {
		return 0
	}
	return float64(s.Categories[i].Value) / float64(total)
}

// MaxTrendCount returns the largest daily count, used to scale charts.
func (s TrendsSnapshot) MaxTrendCount() int {
	highest := 0
	for _, p := range s.Trend {
		if p.Count > highest {
			highest = p.Count
		}
	}
	return highest
}

// ErrInvalidFilter is returned when a FilterSelection does not carry exactly
// one of category or date.
var ErrInvalidFilter = errors.New("filter must set exactly one of category or date")

// FilterSelection narrows a recent-reports query to one category or one day.
// The zero value means "no filter" and is only valid for the live feed.
type FilterSelection struct {
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Date     string `json:"date,omitempty"     yaml:"date,omitempty"`
}

// ByCategory selects reports of the named category. Chart slice names are
// title-cased by the backend, filters are lower-case.
func ByCategory(name string) FilterSelection {
	return FilterSelection{Category: strings.ToLower(strings.TrimSpace(name))}
}

// ByDate selects reports filed on date (YYYY-MM-DD).
func ByDate(date string) (FilterSelection, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return FilterSelection{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return FilterSelection{Date: date}, nil
}

// IsZero reports whether no filter is set.
func (f FilterSelection) IsZero() bool {
	return f.Category == "" && f.Date == ""
}

// Validate checks that exactly one of Category or Date is set.
func (f FilterSelection) Validate() error {
	if (f.Category == "") == (f.Date == "") {
		return ErrInvalidFilter
	}
	return nil
}

// Title is the heading of the detail view opened for this filter.
func (f FilterSelection) Title() string {
	if f.Date != "" {
		return "Reports on " + f.Date
	}
	if f.Category == "" {
		return "Recent reports"
	}
	return "Category: " + titleCase(f.Category)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

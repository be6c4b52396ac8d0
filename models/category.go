package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Category is the kind of identifier a report or scan refers to.
type Category string

const (
	CategoryPhone       Category = "phone"
	CategoryUPI         Category = "upi"
	CategoryURL         Category = "url"
	CategoryMessageText Category = "message_text"
)

// Categories lists every category a report may be filed under, in form order.
var Categories = []Category{CategoryPhone, CategoryUPI, CategoryURL, CategoryMessageText}

// ErrUnknownCategory is returned when a value is not one of Categories.
var ErrUnknownCategory = errors.New("unknown category")

var (
	upiPattern   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+@[a-zA-Z]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\-\s]{10,}$`)
	urlPattern   = regexp.MustCompile(`^(https?://|www\.)`)
)

// Valid reports whether c is one of the four report categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPhone, CategoryUPI, CategoryURL, CategoryMessageText:
		return true
	}
	return false
}

// Label is the human-facing name used by forms and tables.
func (c Category) Label() string {
	switch c {
	case CategoryPhone:
		return "Phone"
	case CategoryUPI:
		return "UPI ID"
	case CategoryURL:
		return "Website URL"
	case CategoryMessageText:
		return "Message"
	default:
		return string(c)
	}
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory normalises user input ("UPI", " Phone ") to a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w %q (expected phone, upi, url or message_text)", ErrUnknownCategory, raw)
	}
	return c, nil
}

// DetectCategory guesses the category of value using the same rules the
// backend applies when it validates a submitted report.
func DetectCategory(value string) Category {
	switch {
	case upiPattern.MatchString(value):
		return CategoryUPI
	case phonePattern.MatchString(value):
		return CategoryPhone
	case urlPattern.MatchString(value):
		return CategoryURL
	default:
		return CategoryMessageText
	}
}

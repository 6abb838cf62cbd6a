package server

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var colorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator is the shared engine for API request structs. The
// color rule accepts an empty value or six hex digits with an optional
// leading hash.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("color", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || colorPattern.MatchString(value)
		})
	})
	return validate
}

// normalizeName trims and collapses internal whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
}

// normalizeColor returns a canonical "#rrggbb" or "" when the input is
// not a usable color.
func normalizeColor(color string) string {
	trimmed := strings.TrimSpace(color)
	if !colorPattern.MatchString(trimmed) {
		return ""
	}
	return "#" + strings.ToLower(strings.TrimPrefix(trimmed, "#"))
}

func defaultPlayerColor(index int) string {
	palette := []string{
		"#ff6b6b",
		"#4dabf7",
		"#51cf66",
		"#ffa94d",
		"#ffd43b",
		"#845ef7",
		"#20c997",
		"#e64980",
	}
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}

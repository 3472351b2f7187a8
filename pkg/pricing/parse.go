package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d[\d,.]*)\s*robux\b`),
	regexp.MustCompile(`\brobux\s*(\d[\d,.]*)\b`),
}

var bareNumber = regexp.MustCompile(`^\s*(\d[\d,.]*)\s*$`)

// ParsePriceText finds the first "<number> robux" (or "robux <number>")
// pattern in text. Thousands separators are dropped.
func ParsePriceText(text string) *int {
	lower := strings.ToLower(text)
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if p := parseDigits(m[1]); p != nil {
			return p
		}
	}
	return nil
}

// ParseBareNumber parses text that consists solely of a number such as
// "1,250", as rendered inside a dedicated price element.
func ParseBareNumber(text string) *int {
	m := bareNumber.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return parseDigits(m[1])
}

func parseDigits(s string) *int {
	s = strings.NewReplacer(",", "", ".", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// CoercePrice converts a decoded JSON value into a whole price, rounding to the
// nearest integer. Anything that is not a finite non-negative number that
// fits in an int yields nil.
func CoercePrice(v any) *int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	f = math.Round(f)
	if f >= math.MaxInt {
		return nil
	}
	n := int(f)
	return &n
}

// Int returns a pointer to v. Handy for building optional prices.
func Int(v int) *int {
	return &v
}

package scalar

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ToDecimal coerces a JSON scalar into an exact decimal. Numeric strings
// and integers are parsed directly; floats go through their shortest
// string form so no binary rounding artifacts leak in. Unparseable or
// absent values become zero.
func ToDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case float64:
		return decimal.NewFromFloat(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// ToInt coerces a JSON scalar into an integer, falling back to def.
func ToInt(v interface{}, def int64) int64 {
	switch t := v.(type) {
	case nil:
		return def
	case bool:
		if t {
			return 1
		}
		return 0
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	case json.Number:
		return stringToInt(t.String(), def)
	case string:
		return stringToInt(t, def)
	}
	return def
}

func stringToInt(s string, def int64) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return def
}

// ToEpochSeconds coerces a timestamp value into unix epoch seconds.
// Digit strings of 13+ characters are treated as milliseconds. ISO-8601
// strings are accepted with an explicit offset, a trailing Z, or bare
// (assumed UTC). Anything else maps to zero.
func ToEpochSeconds(v interface{}) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	case json.Number:
		return stringToEpoch(t.String())
	case string:
		return stringToEpoch(t)
	}
	return 0
}

func stringToEpoch(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		if len(s) >= 13 {
			return n / 1000
		}
		return n
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.Unix()
	}
	if ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return ts.Unix()
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Pick returns the first value present in obj under any case variant of
// the given key aliases, probing aliases in order.
func Pick(obj map[string]interface{}, aliases ...string) interface{} {
	if len(obj) == 0 || len(aliases) == 0 {
		return nil
	}
	keys := make(map[string]string, len(obj))
	for k := range obj {
		keys[strings.ToLower(k)] = k
	}
	for _, alias := range aliases {
		if k, ok := keys[strings.ToLower(alias)]; ok {
			return obj[k]
		}
	}
	return nil
}

// PickString is Pick restricted to non-empty string values.
func PickString(obj map[string]interface{}, aliases ...string) string {
	s, ok := Pick(obj, aliases...).(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

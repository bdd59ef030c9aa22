package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// refillFlag extracts the refill-availability flag from a raw provider
// payload. Providers disagree on the field name and on the value type
// (bool, "1"/"0", number), so all duck-typed probing lives here and nowhere
// else. Returns nil when the provider said nothing.
func refillFlag(raw map[string]interface{}) *bool {
	for _, key := range []string{"refill_available", "refillAvailable", "can_refill", "canRefill", "refill"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if b, ok := boolish(v); ok {
			return &b
		}
	}
	return nil
}

func boolish(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes":
			return true, true
		case "0", "false", "no":
			return false, true
		}
	}
	return false, false
}

// stringField reads a field as a string, rendering numbers without exponent.
func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// intField reads a field as an int, tolerating string-typed numbers.
func intField(raw map[string]interface{}, key string) int {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

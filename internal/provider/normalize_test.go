package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefillFlag(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name string
		raw  map[string]interface{}
		want *bool
	}{
		{"absent", map[string]interface{}{"status": "Completed"}, nil},
		{"snake case bool", map[string]interface{}{"refill_available": true}, boolPtr(true)},
		{"camel case bool", map[string]interface{}{"refillAvailable": false}, boolPtr(false)},
		{"can_refill string one", map[string]interface{}{"can_refill": "1"}, boolPtr(true)},
		{"canRefill string zero", map[string]interface{}{"canRefill": "0"}, boolPtr(false)},
		{"refill number", map[string]interface{}{"refill": float64(1)}, boolPtr(true)},
		{"refill string yes", map[string]interface{}{"refill": "yes"}, boolPtr(true)},
		{"refill string no", map[string]interface{}{"refill": "no"}, boolPtr(false)},
		{"null value skipped", map[string]interface{}{"refill_available": nil}, nil},
		{"unparseable string skipped", map[string]interface{}{"refill": "maybe"}, nil},
		{"first recognizable key wins", map[string]interface{}{"refill_available": false, "refill": "1"}, boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refillFlag(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestStringField(t *testing.T) {
	raw := map[string]interface{}{
		"text":   "  Completed  ",
		"number": float64(99001),
		"flag":   true,
		"none":   nil,
	}

	assert.Equal(t, "Completed", stringField(raw, "text"))
	assert.Equal(t, "99001", stringField(raw, "number"))
	assert.Equal(t, "1", stringField(raw, "flag"))
	assert.Equal(t, "", stringField(raw, "none"))
	assert.Equal(t, "", stringField(raw, "missing"))
}

func TestIntField(t *testing.T) {
	raw := map[string]interface{}{
		"number": float64(250),
		"string": " 42 ",
		"junk":   "n/a",
	}

	assert.Equal(t, 250, intField(raw, "number"))
	assert.Equal(t, 42, intField(raw, "string"))
	assert.Equal(t, 0, intField(raw, "junk"))
	assert.Equal(t, 0, intField(raw, "missing"))
}

package logger_test

import (
	"testing"

	"github.com/api-sage/atm-ledger/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadMasksPINFields(t *testing.T) {
	payload := map[string]any{
		"iban":    1,
		"pin":     "1234",
		"newPin":  "5678",
		"new_pin": "5678",
		"nested": map[string]any{
			"pinHash": "$2a$10$abcdef",
			"amount":  "100",
		},
	}

	sanitized, ok := logger.SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "******", sanitized["pin"])
	assert.Equal(t, "******", sanitized["newPin"])
	assert.Equal(t, "******", sanitized["new_pin"])

	nested, ok := sanitized["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "******", nested["pinHash"])
	assert.Equal(t, "100", nested["amount"])
}

func TestSanitizePayloadLeavesOrdinaryFields(t *testing.T) {
	payload := map[string]any{"bank": "aib", "amount": 50}

	sanitized, ok := logger.SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "aib", sanitized["bank"])
}

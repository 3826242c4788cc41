package gateway_test

import (
	"testing"
	"time"

	"github.com/paybridge/gateway/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var positionalMapping = gateway.ResponseMapping{
	"0":  "response_code",
	"2":  "response_reason_code",
	"3":  "response_text",
	"4":  "auth_code",
	"5":  "avs_response",
	"6":  "trans_id",
	"9":  "amount",
	"38": "cvv_response",
}

func TestStandardizeList(t *testing.T) {
	t.Run("maps positions and ignores unmapped ones", func(t *testing.T) {
		values := []string{"1", "1", "000", "Approved", "AUTHCODE1", "Y", "TXN123"}

		result := gateway.StandardizeList(values, positionalMapping, 420*time.Millisecond, true)

		assert.True(t, result.Approved)
		assert.Equal(t, "Approved", result.ResponseText)
		assert.Equal(t, "AUTHCODE1", result.AuthCode)
		assert.Equal(t, "Y", result.AVSResponse)
		assert.Equal(t, "TXN123", result.TransID)
		assert.Equal(t, "0.42", result.ResponseTime)
		assert.Equal(t, "1", result.Extra["response_code"])
	})

	t.Run("short responses only fill what they carry", func(t *testing.T) {
		result := gateway.StandardizeList([]string{"3", "", "33"}, positionalMapping, time.Second, false)

		assert.False(t, result.Approved)
		assert.Equal(t, "3", result.Extra["response_code"])
		assert.Empty(t, result.TransID)
		assert.Equal(t, "1.00", result.ResponseTime)
	})
}

func TestStandardizeMap(t *testing.T) {
	mapping := gateway.ResponseMapping{
		"ack":           "response_code",
		"l_longmessage0": "response_text",
		"transactionid": "trans_id",
		"amt":           "amount",
		"avscode":       "avs_response",
	}

	t.Run("maps keys and drops extras silently", func(t *testing.T) {
		raw := map[string]string{
			"ack":           "Success",
			"transactionid": "8XY12345",
			"amt":           "10.00",
			"build":         "18316154",
			"version":       "54.0",
		}

		result := gateway.StandardizeMap(raw, mapping, 100*time.Millisecond, true)

		assert.True(t, result.Approved)
		assert.Equal(t, "8XY12345", result.TransID)
		assert.Equal(t, "10.00", result.Amount)
		assert.Equal(t, "Success", result.Extra["response_code"])
		assert.NotContains(t, result.Extra, "build")
	})
}

func TestErrorResult(t *testing.T) {
	result := gateway.ErrorResult("gateway vomited plain text", 3*time.Second)

	assert.False(t, result.Approved)
	assert.Equal(t, "gateway vomited plain text", result.ResponseText)
	assert.Equal(t, "3.00", result.ResponseTime)
}

func TestRoundTrip(t *testing.T) {
	// Building a request from canonical fields, then normalizing a synthetic
	// response echoing those values back, must reproduce the inputs.
	req := gateway.NewRequest()

	amountKey, _, err := testMapping.Key(gateway.FieldAmount)
	require.NoError(t, err)
	transIDKey, _, err := testMapping.Key(gateway.FieldTransID)
	require.NoError(t, err)

	req.Set(amountKey, "10.00")
	req.Set(transIDKey, "TXN123")

	echo := map[string]string{
		amountKey:  req.Get(amountKey),
		transIDKey: req.Get(transIDKey),
	}
	inverse := gateway.ResponseMapping{
		amountKey:  gateway.FieldAmount,
		transIDKey: gateway.FieldTransID,
	}

	result := gateway.StandardizeMap(echo, inverse, 10*time.Millisecond, true)

	assert.Equal(t, "10.00", result.Amount)
	assert.Equal(t, "TXN123", result.TransID)
}

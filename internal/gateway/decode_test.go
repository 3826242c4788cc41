package gateway_test

import (
	"testing"

	"github.com/paybridge/gateway/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDelimited(t *testing.T) {
	values := gateway.DecodeDelimited("1;000;Approved;AUTHCODE1;Y;TXN123", ";")
	assert.Equal(t, []string{"1", "000", "Approved", "AUTHCODE1", "Y", "TXN123"}, values)

	assert.Equal(t, []string{"only"}, gateway.DecodeDelimited("only", ";"))
}

func TestDecodeNVP(t *testing.T) {
	t.Run("parses pairs and lowercases keys", func(t *testing.T) {
		values, err := gateway.DecodeNVP("ACK=Success&TRANSACTIONID=8XY12345&AMT=10%2E00")

		require.NoError(t, err)
		assert.Equal(t, "Success", values["ack"])
		assert.Equal(t, "8XY12345", values["transactionid"])
		assert.Equal(t, "10.00", values["amt"])
	})

	t.Run("rejects malformed escapes", func(t *testing.T) {
		_, err := gateway.DecodeNVP("broken=%zz")

		require.Error(t, err)
		assert.True(t, gateway.IsErrorCode(err, gateway.ErrCodeProtocol))
	})
}

func TestFlattenXML(t *testing.T) {
	t.Run("flattens leaf elements", func(t *testing.T) {
		body := []byte(`<response>
			<r_approved>APPROVED</r_approved>
			<r_code>AUTH99</r_code>
			<r_ref>00012345</r_ref>
			<r_nested><inner>deep</inner></r_nested>
		</response>`)

		values, err := gateway.FlattenXML(body)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", values["r_approved"])
		assert.Equal(t, "AUTH99", values["r_code"])
		assert.Equal(t, "00012345", values["r_ref"])
		assert.Equal(t, "deep", values["inner"])
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		_, err := gateway.FlattenXML([]byte("<oops>no close"))

		require.Error(t, err)
		assert.True(t, gateway.IsErrorCode(err, gateway.ErrCodeProtocol))
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("stringifies scalar members", func(t *testing.T) {
		body := []byte(`{"id":"ch_123","amount":1000,"paid":true,"failure_message":null,"card":{"last4":"1111"}}`)

		values, err := gateway.DecodeJSON(body)

		require.NoError(t, err)
		assert.Equal(t, "ch_123", values["id"])
		assert.Equal(t, "1000", values["amount"])
		assert.Equal(t, "true", values["paid"])
		assert.NotContains(t, values, "failure_message")
		assert.NotContains(t, values, "card")
	})

	t.Run("rejects non-object bodies", func(t *testing.T) {
		_, err := gateway.DecodeJSON([]byte("not json"))

		require.Error(t, err)
		assert.True(t, gateway.IsErrorCode(err, gateway.ErrCodeProtocol))
	})
}

func TestAmountHelpers(t *testing.T) {
	t.Run("FormatAmount normalizes to two decimals", func(t *testing.T) {
		for input, want := range map[string]string{
			"10":     "10.00",
			"10.5":   "10.50",
			"0.1":    "0.10",
			"129.99": "129.99",
		} {
			got, err := gateway.FormatAmount(input)
			require.NoError(t, err)
			assert.Equal(t, want, got, input)
		}
	})

	t.Run("AmountMinorUnits scales to cents", func(t *testing.T) {
		cents, err := gateway.AmountMinorUnits("10.00")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), cents)

		cents, err = gateway.AmountMinorUnits("0.99")
		require.NoError(t, err)
		assert.Equal(t, int64(99), cents)
	})

	t.Run("garbage amounts fail", func(t *testing.T) {
		_, err := gateway.FormatAmount("ten dollars")
		require.Error(t, err)
		assert.True(t, gateway.IsErrorCode(err, gateway.ErrCodeInvalidAmount))

		_, err = gateway.AmountMinorUnits("")
		require.Error(t, err)
	})
}

package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapTransactionStatus(t *testing.T) {
	cases := map[string]string{
		"settlement": StatusPaid,
		"Settlement": StatusPaid,
		"capture":    StatusPaid,
		"pending":    StatusUnpaid,
		"deny":       StatusUnpaid,
		"expire":     StatusUnpaid,
		"cancel":     StatusUnpaid,
		"":           StatusUnpaid,
	}
	for status, want := range cases {
		assert.Equal(t, want, mapTransactionStatus(status), "status %q", status)
	}
}

func TestMetadataFromSessionID(t *testing.T) {
	meta := metadataFromSessionID("BK-abc123.1712345678901234567")
	assert.Equal(t, "BK-abc123", meta["bookingId"])

	// no nonce separator means no booking linkage
	assert.Empty(t, metadataFromSessionID("BK-abc123"))
	assert.Empty(t, metadataFromSessionID(""))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2500), minorUnits(25))
	assert.Equal(t, int64(1999), minorUnits(19.99))
	assert.Equal(t, int64(1000), minorUnits(9.999))
	assert.Equal(t, int64(0), minorUnits(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
	assert.Equal(t, "abc", truncate("abc", 0))
}

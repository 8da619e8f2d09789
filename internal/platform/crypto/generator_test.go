// File: internal/platform/crypto/generator_test.go
package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomStringIsUnique(t *testing.T) {
	a, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	b, err := GenerateSecureRandomString(16)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateReceiptFitsGatewayLimit(t *testing.T) {
	receipt, err := GenerateReceipt()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt, "rcpt_"))
	// Razorpay rejects receipts longer than 40 characters.
	assert.LessOrEqual(t, len(receipt), 40)
}

package token

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumericCode_SixDigitRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNewNumericCode_RejectsBadLength(t *testing.T) {
	_, err := NewNumericCode(0)
	assert.Error(t, err)
	_, err = NewNumericCode(19)
	assert.Error(t, err)
}

func TestNewUnsubscribeToken_Unique(t *testing.T) {
	assert.NotEqual(t, NewUnsubscribeToken(), NewUnsubscribeToken())
}

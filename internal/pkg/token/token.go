package token

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// NewUnsubscribeToken returns the opaque token embedded in newsletter
// unsubscribe links.
func NewUnsubscribeToken() string {
	return uuid.NewString()
}

// NewNumericCode returns a uniformly random decimal code in [10^(digits-1), 10^digits-1].
func NewNumericCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	span := low*10 - low
	if digits == 1 {
		low, span = 0, 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+low), nil
}

package impl

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateOTP returns a uniformly random 6-digit numeric code. Codes keep
// their leading-digit spread (100000-999999) so length never leaks timing
// or padding differences.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

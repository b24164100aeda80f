// Package verifcode issues the short-lived numeric codes mailed out during
// email verification.
package verifcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpace = 1_000_000

// Issue returns a 6-digit zero-padded code drawn uniformly from the numeric
// space. Brute-force resistance comes from rate limits and the short expiry,
// not from the code length.
func Issue() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

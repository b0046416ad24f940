package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// PublicIDPrefix starts every project id shown in Noder URLs.
const PublicIDPrefix = "noder"

var rxPublicID = regexp.MustCompile(`^` + PublicIDPrefix + `-\d{5}-\d{4}$`)

// NewPublicID returns a project id such as "noder-12345-6789". The id is
// short enough to read out; uniqueness is enforced by the database and the
// caller retries on collision.
func NewPublicID() (string, error) {
	a, err := randBetween(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randBetween(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", PublicIDPrefix, a, b), nil
}

// ValidPublicID reports whether s has the shape NewPublicID produces.
func ValidPublicID(s string) bool {
	return rxPublicID.MatchString(s)
}

func randBetween(lo, hi int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return 0, err
	}
	return lo + n.Int64(), nil
}

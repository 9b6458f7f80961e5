// Package shortid generates the short alphanumeric ids used for orders,
// price list items and history entries.
package shortid

import (
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Length of a generated id.
const Length = 9

const maxAttempts = 16

var ErrExhausted = errors.New("could not generate a unique id")

// New returns a random lowercase base36 id of Length characters.
func New() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < Length {
		s = strings.Repeat("0", Length-len(s)) + s
	}
	return s[len(s)-Length:], nil
}

// Unique draws ids until taken reports one as free.
func Unique(taken func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id, err := New()
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}

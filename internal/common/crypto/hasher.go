package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/memorize-api/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher produces self-describing salted digests. A zero Cost means
// constants.BcryptCost. Only the first 72 bytes of a password are significant.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = constants.BcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword(truncate(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password))
}

// truncate keeps the bytes bcrypt actually reads; longer input is rejected
// by GenerateFromPassword instead of being ignored.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > constants.BcryptMaxPassword {
		b = b[:constants.BcryptMaxPassword]
	}
	return b
}

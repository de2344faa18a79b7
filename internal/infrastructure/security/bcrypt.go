package security

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/france-explorer/internal/domain"
)

// BcryptHasher writes bcrypt hashes. Compare also understands the
// werkzeug pbkdf2 and scrypt formats found on older accounts.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(out), nil
}

// Compare returns nil when password matches hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}
	return compareWerkzeug(hash, password)
}

func isBcrypt(hash string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}
	return false
}

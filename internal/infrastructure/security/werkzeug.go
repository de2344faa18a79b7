package security

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// ErrUnknownHashFormat is returned for stored hashes no verifier understands.
var ErrUnknownHashFormat = errors.New("unknown password hash format")

const (
	werkzeugPBKDF2Iterations = 260000
	werkzeugScryptKeyLen     = 64
)

// compareWerkzeug verifies "<method>$<salt>$<hex>" hashes as written by
// werkzeug.security.generate_password_hash:
//
//	pbkdf2:sha256:600000$salt$hex
//	scrypt:32768:8:1$salt$hex
func compareWerkzeug(stored, password string) error {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return ErrUnknownHashFormat
	}
	method, salt, want := parts[0], parts[1], parts[2]

	expected, err := hex.DecodeString(want)
	if err != nil || len(expected) == 0 {
		return ErrUnknownHashFormat
	}

	var got []byte
	fields := strings.Split(method, ":")
	switch fields[0] {
	case "pbkdf2":
		got, err = werkzeugPBKDF2(fields[1:], password, salt, len(expected))
	case "scrypt":
		got, err = werkzeugScrypt(fields[1:], password, salt)
	default:
		return ErrUnknownHashFormat
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(got, expected) != 1 {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return nil
}

func werkzeugPBKDF2(args []string, password, salt string, keyLen int) ([]byte, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, ErrUnknownHashFormat
	}

	var h func() hash.Hash
	switch args[0] {
	case "sha1":
		h = sha1.New
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	default:
		return nil, ErrUnknownHashFormat
	}

	iter := werkzeugPBKDF2Iterations
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return nil, ErrUnknownHashFormat
		}
		iter = n
	}

	return pbkdf2.Key([]byte(password), []byte(salt), iter, keyLen, h), nil
}

func werkzeugScrypt(args []string, password, salt string) ([]byte, error) {
	n, r, p := 1<<15, 8, 1
	if len(args) != 0 {
		if len(args) != 3 {
			return nil, ErrUnknownHashFormat
		}
		vals := make([]int, 3)
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil || v <= 0 {
				return nil, ErrUnknownHashFormat
			}
			vals[i] = v
		}
		n, r, p = vals[0], vals[1], vals[2]
	}

	key, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, werkzeugScryptKeyLen)
	if err != nil {
		return nil, ErrUnknownHashFormat
	}
	return key, nil
}

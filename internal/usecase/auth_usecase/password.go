package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)を保存値と比較。
// bcrypt、旧システムのpbkdf2/scrypt、平文の順に見る。ハッシュらしい値を平文として比べることはしない。
func (v *BcryptPasswordVerifier) Verify(plain string, stored string) bool {
	switch {
	case IsHashed(stored):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	case IsLegacyHash(stored):
		return verifyLegacyHash(plain, stored)
	case strings.HasPrefix(stored, "$2"):
		//壊れたbcrypt
		return false
	default:
		return subtle.ConstantTimeCompare([]byte(plain), []byte(stored)) == 1
	}
}

// bcryptのハッシュか（$2a$ / $2b$ / $2y$）
func IsHashed(stored string) bool {
	if !strings.HasPrefix(stored, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

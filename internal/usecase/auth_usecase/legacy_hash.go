package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// 旧システム（werkzeug）の形式: "<method>$<salt>$<hex>"
//   pbkdf2:sha256:600000$salt$hex
//   scrypt:32768:8:1$salt$hex
const (
	legacyPBKDF2Prefix = "pbkdf2:"
	legacyScryptPrefix = "scrypt:"

	// パラメータの上限
	maxLegacyIterations = 5_000_000
	maxLegacyScryptN    = 1 << 20
	legacyScryptKeyLen  = 64
)

var legacyDigests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// 旧システムのハッシュか（pbkdf2: / scrypt:）
func IsLegacyHash(stored string) bool {
	return strings.HasPrefix(stored, legacyPBKDF2Prefix) || strings.HasPrefix(stored, legacyScryptPrefix)
}

// 旧形式のハッシュと平文を比較。形式が壊れていれば false。
func verifyLegacyHash(plain string, stored string) bool {
	method, salt, digest, ok := splitLegacyHash(stored)
	if !ok {
		return false
	}
	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false
	}

	var got []byte
	switch {
	case strings.HasPrefix(method, legacyPBKDF2Prefix):
		got, ok = legacyPBKDF2(method, plain, salt)
	case strings.HasPrefix(method, legacyScryptPrefix):
		got, ok = legacyScrypt(method, plain, salt)
	default:
		return false
	}
	if !ok || len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitLegacyHash(stored string) (method, salt, digest string, ok bool) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// pbkdf2:<hash>:<iterations>（鍵長はダイジェスト長）
func legacyPBKDF2(method, plain, salt string) ([]byte, bool) {
	args := strings.Split(strings.TrimPrefix(method, legacyPBKDF2Prefix), ":")
	if len(args) != 2 {
		return nil, false
	}
	newHash, ok := legacyDigests[args[0]]
	if !ok {
		return nil, false
	}
	iter, err := strconv.Atoi(args[1])
	if err != nil || iter <= 0 || iter > maxLegacyIterations {
		return nil, false
	}
	return pbkdf2.Key([]byte(plain), []byte(salt), iter, newHash().Size(), newHash), true
}

// scrypt:<n>:<r>:<p>（鍵長64）
func legacyScrypt(method, plain, salt string) ([]byte, bool) {
	args := strings.Split(strings.TrimPrefix(method, legacyScryptPrefix), ":")
	if len(args) != 3 {
		return nil, false
	}
	params := make([]int, 3)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v <= 0 {
			return nil, false
		}
		params[i] = v
	}
	if params[0] > maxLegacyScryptN {
		return nil, false
	}
	key, err := scrypt.Key([]byte(plain), []byte(salt), params[0], params[1], params[2], legacyScryptKeyLen)
	if err != nil {
		return nil, false
	}
	return key, true
}

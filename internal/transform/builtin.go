package transform

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

func registerBuiltins(r *Registry) {
	r.Register("boolean", func(any) (any, error) {
		return r.faker.Bool(), nil
	})
	r.Register("sha256", textDigest("sha256", func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return sum[:]
	}))
	r.Register("md5", textDigest("md5", func(b []byte) []byte {
		sum := md5.Sum(b)
		return sum[:]
	}))
	r.Register("redact", func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Transform: "redact", Want: "text", Value: v}
		}
		return strings.Repeat("*", utf8.RuneCountInString(s)), nil
	})
	r.Register("null", func(any) (any, error) {
		return nil, nil
	})
	r.Register("keep", func(v any) (any, error) {
		return v, nil
	})
}

// textDigest hashes the UTF-8 bytes of a text value and returns the lowercase
// hex digest. NULL stays NULL.
func textDigest(name string, sum func([]byte) []byte) Func {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Transform: name, Want: "text", Value: v}
		}
		return hex.EncodeToString(sum([]byte(s))), nil
	}
}

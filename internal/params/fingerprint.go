package params

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key is the hex digest identifying a parameter set in the scratch directory.
type Key string

func (k Key) String() string { return string(k) }

// Short returns the first 12 hex digits, enough to tell runs apart in logs.
func (k Key) Short() string {
	if len(k) <= 12 {
		return string(k)
	}
	return string(k[:12])
}

// Fingerprint returns the cache key of p.
//
// The struct is encoded with encoding/json, which emits fields in
// declaration order and floats in their shortest round-trip form, so the
// byte stream depends only on the field values.
func Fingerprint(p Parameters) Key {
	data, err := Canonical(p)
	if err != nil {
		// json rejects NaN and Inf.
		data = []byte(fmt.Sprintf("%#v", p))
	}
	sum := sha256.Sum256(data)
	return Key(hex.EncodeToString(sum[:]))
}

// Canonical returns the byte encoding that Fingerprint hashes.
func Canonical(p Parameters) ([]byte, error) {
	return json.Marshal(p)
}

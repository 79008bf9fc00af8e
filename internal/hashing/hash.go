// Package hashing derives stable cache keys from ERA5 request mappings.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyLength is the number of hex characters kept from the digest.
const KeyLength = 12

// RequestHash returns a short, stable identifier for a request mapping.
//
// The hash is independent of map iteration order: encoding/json
// marshals map keys in lexicographic order, which provides the
// canonical serialization. Any change to any value yields a different
// identifier with overwhelming probability.
func RequestHash(request map[string]any) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:KeyLength], nil
}

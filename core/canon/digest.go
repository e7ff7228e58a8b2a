package canon

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex BLAKE3-256 hash of the JSON encoding of records. Two
// runs over the same source and policy produce the same digest.
func Digest(records []FootnoteRecord) string {
	if records == nil {
		records = []FootnoteRecord{}
	}
	data, err := marshalValue(records)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

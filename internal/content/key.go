package content

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
)

// UnitKey derives the stable content-addressed identifier of a
// (source, group, locator, sub-unit) tuple. Identical inputs always
// produce the identical key across process restarts.
//
// Each field is length-prefixed before hashing so no separator can be
// forged by field content ("a"+"bc" never collides with "ab"+"c").
func UnitKey(sourceID, groupLabel, locator, subUnitLabel string) string {
	h := sha256.New()
	for _, field := range []string{sourceID, groupLabel, locator, subUnitLabel} {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(field)))
		h.Write(lenBuf[:])
		io.WriteString(h, field)
	}
	return hex.EncodeToString(h.Sum(nil))
}

package anki

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"leetcode-anki/internal/adapter/htmltext"
)

const base91Table = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// GUID returns the note GUID for values, compatible with the scheme Anki
// importers use to recognise a note across repeated imports.
func GUID(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "__")))
	n := binary.BigEndian.Uint64(sum[:8])

	var reversed []byte
	for n > 0 {
		reversed = append(reversed, base91Table[n%91])
		n /= 91
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return string(reversed)
}

// fieldChecksum is the duplicate-detection checksum Anki stores for the first field.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(htmltext.Strip(field)))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return n
}

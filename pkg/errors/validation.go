package errors

import (
	"unicode"
	"unicode/utf8"
)

// MaxNodeIDLength bounds identifiers accepted from the network.
const MaxNodeIDLength = 1024

// ValidateNodeID checks an identifier decoded from an inbound datagram.
// It rejects empty ids, invalid UTF-8, control characters and ids longer
// than [MaxNodeIDLength]. Whether the node exists is not checked here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeDecode, "empty node identifier")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeDecode, "node identifier too long (%d bytes, max %d)", len(id), MaxNodeIDLength)
	}
	if !utf8.ValidString(id) {
		return New(ErrCodeDecode, "node identifier is not valid UTF-8")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeDecode, "node identifier contains control characters")
		}
	}
	return nil
}

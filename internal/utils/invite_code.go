package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const inviteCodeGroups = 3

// GenerateInviteCode returns a random board invite code shaped XXXX-XXXX-XXXX.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeGroups*2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := hex.EncodeToString(buf)
	groups := make([]string, inviteCodeGroups)
	for i := range groups {
		groups[i] = encoded[i*4 : i*4+4]
	}
	return strings.Join(groups, "-"), nil
}

// NormalizeInviteCode trims whitespace and lowercases a user-supplied code.
func NormalizeInviteCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

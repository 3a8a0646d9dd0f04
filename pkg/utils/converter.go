// Package utils provides utility functions for the Sentinel service.
// This file contains string formatting and masking helpers used in logs and CLI output.
package utils

import (
	"strings"
)

// ================================================================================
// String Helpers
// ================================================================================

// Truncate truncates a string to specified length with ellipsis
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// CoalesceString returns the first non-empty string
func CoalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ================================================================================
// Data Masking/Obfuscation
// ================================================================================

// MaskSecret masks a credential, showing only its first four characters
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}

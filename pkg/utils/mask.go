package utils

import (
	"regexp"
	"strings"
)

var dsnPasswordRegex = regexp.MustCompile(`(:)([^:@]+)(@)`)

// MaskDSN hides the password portion of a connection string.
func MaskDSN(dsn string) string {
	return dsnPasswordRegex.ReplaceAllString(dsn, ":***@")
}

// MaskAccountNumber keeps the last four characters of an account number.
func MaskAccountNumber(acct string) string {
	if len(acct) <= 4 {
		return strings.Repeat("*", len(acct))
	}
	return strings.Repeat("*", len(acct)-4) + acct[len(acct)-4:]
}

// MaskAddress shortens a wallet address to its first six and last four characters.
func MaskAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TokenCharset is the alphabet of access codes and download passwords.
const TokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const TokenLength = 8

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateRandomString draws length characters uniformly from charset.
func GenerateRandomString(length int, charset string) (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}

// GenerateToken returns an 8-character uppercase alphanumeric token.
func GenerateToken() (string, error) {
	return GenerateRandomString(TokenLength, TokenCharset)
}

// Slugify lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters into a single "-".
func Slugify(s string) string {
	s = strings.ToLower(s)

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}

	return reNonAlnum.ReplaceAllString(string(buf), "-")
}

// FormatMoney renders an amount the way the storefront displays totals.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

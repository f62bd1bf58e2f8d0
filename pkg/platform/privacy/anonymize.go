// Package privacy masks personal data before it reaches logs.
// Claimants submit national identity numbers, emails and phones; none of
// them may be logged in clear.
package privacy

import (
	"net/netip"
	"strings"
	"unicode/utf8"
)

// AnonymizeIP keeps the network part of an address: /24 for IPv4, /48 for IPv6.
// Returns "unknown" for empty input and "invalid" for unparseable input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskDocument keeps the last four characters of a document number.
func MaskDocument(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// MaskEmail keeps the first rune of the local part and the domain.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(local)
	return local[:size] + "***@" + domain
}

package handlers

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// domainTypos maps frequently mistyped mail domains to their intended
// spelling, used only to phrase a friendlier error.
var domainTypos = map[string]string{
	"gmial.com":  "gmail.com",
	"gamil.com":  "gmail.com",
	"gmal.com":   "gmail.com",
	"hotmal.com": "hotmail.com",
}

// validateSTXAddress checks the recipient's Stacks wallet address:
// SP (mainnet) or ST (testnet) prefix and a plausible length.
// Returns an empty string when valid.
func validateSTXAddress(address string) string {
	if address == "" {
		return "STX address is required"
	}
	if !strings.HasPrefix(address, "SP") && !strings.HasPrefix(address, "ST") {
		return "STX address must start with SP (mainnet) or ST (testnet)"
	}
	if len(address) < 30 || len(address) > 50 {
		return "invalid STX address length"
	}
	return ""
}

// validateBTCAddress checks an optional BTC payout address: legacy (1, 3),
// bech32 (bc1/tb1), or testnet (m, n, 2) prefixes with per-format length
// rules. Empty is valid; BTC is optional.
func validateBTCAddress(address string) string {
	if address == "" {
		return ""
	}

	lower := strings.ToLower(address)
	hasValidPrefix := false
	for _, p := range []string{"1", "3", "bc1", "tb1", "m", "n", "2"} {
		if strings.HasPrefix(lower, p) {
			hasValidPrefix = true
			break
		}
	}
	if !hasValidPrefix {
		return "invalid BTC address prefix"
	}

	if strings.HasPrefix(address, "bc1") || strings.HasPrefix(address, "tb1") {
		if len(address) < 42 || len(address) > 62 {
			return "invalid bech32 address length"
		}
	} else if len(address) < 25 || len(address) > 45 {
		return "invalid BTC address length"
	}
	return ""
}

// validateEmail checks an optional email. On a recognized domain typo the
// message suggests the intended domain; this is a form-level nicety, not
// part of schedule validation.
func validateEmail(email string) string {
	if email == "" {
		return ""
	}
	if !emailPattern.MatchString(email) {
		return "invalid email format"
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	if fixed, ok := domainTypos[domain]; ok {
		return "did you mean " + fixed + "?"
	}
	return ""
}

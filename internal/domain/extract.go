package domain

import (
	"errors"
	"net/netip"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

var (
	errNoAuthority  = errors.New("no authority")
	errEmptyHost    = errors.New("empty host")
	errInvalidIPv6  = errors.New("invalid IPv6 host")
	errUnbalancedBr = errors.New("unbalanced brackets in host")
)

// Extract takes a raw target line as found in a scope list (bare IP, bare
// hostname or URL) and returns its host component. ok is false when no host
// can be extracted.
func Extract(line string) (host string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	// IP literal, returned untouched.
	if _, err := netip.ParseAddr(line); err == nil {
		return line, true
	}

	// Looks like a domain rather than a path or an IPv6 literal.
	if strings.Contains(line, ".") && !strings.ContainsAny(line, "/:") {
		return line, true
	}

	if !strings.Contains(line, "://") {
		line = "http://" + line
	}

	host, err := hostFromURL(line)
	if err != nil {
		return "", false
	}
	return host, true
}

// hostFromURL returns the lower-cased hostname of raw's authority.
func hostFromURL(raw string) (string, error) {
	authority, err := splitAuthority(raw)
	if err != nil {
		return "", err
	}

	// Brackets are checked on the whole authority, userinfo included.
	hasOpen := strings.Contains(authority, "[")
	if hasOpen != strings.Contains(authority, "]") {
		return "", errUnbalancedBr
	}

	// Strip userinfo if present: user:pass@host
	if at := strings.LastIndexByte(authority, '@'); at != -1 {
		authority = authority[at+1:]
	}

	var host string
	if _, bracketed, found := strings.Cut(authority, "["); found {
		host, _, _ = strings.Cut(bracketed, "]")
		if !validBracketedHost(host) {
			return "", errInvalidIPv6
		}
	} else {
		host, _, _ = strings.Cut(authority, ":")
	}

	if host == "" {
		return "", errEmptyHost
	}
	return normalizeHost(host), nil
}

// splitAuthority locates "//authority" after an optional scheme and cuts it
// at the first '/', '?' or '#'.
func splitAuthority(raw string) (string, error) {
	rest := raw
	if i := strings.IndexByte(raw, ':'); i > 0 && isScheme(raw[:i]) {
		rest = raw[i+1:]
	}
	if !strings.HasPrefix(rest, "//") {
		return "", errNoAuthority
	}
	rest = rest[2:]
	if end := strings.IndexAny(rest, "/?#"); end != -1 {
		rest = rest[:end]
	}
	return rest, nil
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// validBracketedHost accepts an IPv6 literal (zone allowed) or an IPvFuture
// form "v<hex>.<anything>".
func validBracketedHost(h string) bool {
	if strings.HasPrefix(h, "v") {
		ver, rest, found := strings.Cut(h[1:], ".")
		if !found || ver == "" || rest == "" {
			return false
		}
		for i := 0; i < len(ver); i++ {
			if !isHex(ver[i]) {
				return false
			}
		}
		return true
	}
	addr, err := netip.ParseAddr(h)
	return err == nil && addr.Is6()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func normalizeHost(host string) string {
	// ASCII-only host: lowercase in place and skip IDNA.
	if isASCII(host) {
		b := []byte(host)
		for i := 0; i < len(b); i++ {
			c := b[i]
			if c >= 'A' && c <= 'Z' {
				b[i] = c + 32
			}
		}
		return string(b)
	}

	// Non-ASCII: punycode it, keep the unicode form if that fails.
	host = strings.ToLower(host)
	if asciiHost, err := idna.Punycode.ToASCII(host); err == nil {
		return asciiHost
	}
	return host
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

package domain

import (
	"net/netip"
	"strings"
)

// Excludes reports whether line must be dropped from the output.
// Lines whose host cannot be extracted are kept.
func (e Exclusions) Excludes(line string) bool {
	host, ok := Extract(line)
	if !ok {
		return false
	}

	// 1) configured prefixes
	for _, p := range e.Prefixes {
		if strings.HasPrefix(host, p) {
			return true
		}
	}

	// 2) private / special-purpose IPs
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return IsPrivate(addr)
}

// IsPrivate reports whether addr belongs to a private or otherwise
// non-routable special-purpose range (IANA IPv4/IPv6 special registries).
// IPv4-mapped IPv6 addresses are classified by the embedded IPv4 address.
func IsPrivate(addr netip.Addr) bool {
	addr = addr.WithZone("")
	if addr.Is4In6() {
		return IsPrivate(addr.Unmap())
	}
	if addr.Is4() {
		return inAny(addr, private4, private4Global)
	}
	return inAny(addr, private6, private6Global)
}

func inAny(addr netip.Addr, ranges, exceptions []netip.Prefix) bool {
	for _, p := range exceptions {
		if p.Contains(addr) {
			return false
		}
	}
	for _, p := range ranges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

var (
	private4 = mustPrefixes(
		"0.0.0.0/8",
		"10.0.0.0/8",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"172.16.0.0/12",
		"192.0.0.0/24",
		"192.0.2.0/24",
		"192.168.0.0/16",
		"198.18.0.0/15",
		"198.51.100.0/24",
		"203.0.113.0/24",
		"240.0.0.0/4",
		"255.255.255.255/32",
	)
	private4Global = mustPrefixes(
		"192.0.0.9/32",
		"192.0.0.10/32",
	)

	private6 = mustPrefixes(
		"::1/128",
		"::/128",
		"64:ff9b:1::/48",
		"100::/64",
		"2001::/23",
		"2001:db8::/32",
		"2002::/16",
		"fc00::/7",
		"fe80::/10",
	)
	private6Global = mustPrefixes(
		"2001:1::1/128",
		"2001:1::2/128",
		"2001:3::/32",
		"2001:4:112::/48",
		"2001:20::/28",
		"2001:30::/28",
	)
)

func mustPrefixes(ss ...string) []netip.Prefix {
	out := make([]netip.Prefix, len(ss))
	for i, s := range ss {
		out[i] = netip.MustParsePrefix(s)
	}
	return out
}

// ParsePrefixes turns a comma-separated list ("23,104.,173") into
// dot-terminated prefixes. Blank tokens are ignored; a list with no tokens
// yields an empty, non-nil slice so that it disables prefix filtering
// instead of falling back to DefaultPrefixes.
func ParsePrefixes(csv string) []string {
	out := []string{}
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if !strings.HasSuffix(tok, ".") {
			tok += "."
		}
		out = append(out, tok)
	}
	return out
}

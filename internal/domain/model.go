package domain

// DefaultPrefixes are excluded when no prefixes are configured.
var DefaultPrefixes = []string{"23.", "104.", "173."}

// Exclusions is an ordered set of host prefixes to drop.
// NOTE: matching is a plain string prefix on the extracted host, not a CIDR
// match, so "23." also drops a hostname such as "23.example.com".
// Private-range IPs are always excluded on top of the prefixes.
type Exclusions struct {
	Prefixes []string
}

// NewExclusions copies prefixes; nil means DefaultPrefixes.
func NewExclusions(prefixes []string) Exclusions {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return Exclusions{Prefixes: out}
}

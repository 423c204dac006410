package policies

import "strings"

// MutabilityPolicy compiles a list of glob-ish feature-name patterns
// ("FOO", "FOO_*", "*") into an O(1)-ish Locked lookup, grounded on the
// teacher's PackagingPolicy pattern compiler (package_policy.go):
// exact names, trailing-"*" prefixes, and a bare "*" wildcard are each
// compiled into their own lookup structure up front instead of being
// re-parsed on every Locked call.
type MutabilityPolicy struct {
	exact    map[string]struct{}
	prefixes []string
	lockAll  bool
}

// NewMutabilityPolicy compiles patterns naming features the RangeFix
// soft set must never touch (SPEC_FULL.md §8), in addition to whatever
// policy.Locked callers layer on top (e.g. a feature with no prompt is
// never user-settable regardless of this policy).
func NewMutabilityPolicy(patterns []string) MutabilityPolicy {
	p := MutabilityPolicy{exact: map[string]struct{}{}}
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		if pattern == "*" {
			p.lockAll = true
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			p.prefixes = append(p.prefixes, strings.TrimSuffix(pattern, "*"))
			continue
		}
		p.exact[pattern] = struct{}{}
	}
	return p
}

// Locked implements ports.MutabilityPolicyPort.
func (p MutabilityPolicy) Locked(feature string) bool {
	if p.lockAll {
		return true
	}
	if _, ok := p.exact[feature]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(feature, prefix) {
			return true
		}
	}
	return false
}

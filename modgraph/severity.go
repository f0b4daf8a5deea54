package modgraph

import (
	"fmt"
	"sort"
)

// Severity ranks how much of a problem a cycle is. The order, from harmless
// to harmful, is none < skip < good < complicated < bad. SeverityNone is the
// bottom element reserved for edges that participate in no cycle.
type Severity string

const (
	SeverityNone        Severity = "none"
	SeveritySkip        Severity = "skip"
	SeverityGood        Severity = "good"
	SeverityComplicated Severity = "complicated"
	SeverityBad         Severity = "bad"
)

var severityRank = map[Severity]int{
	SeverityNone:        0,
	SeveritySkip:        1,
	SeverityGood:        2,
	SeverityComplicated: 3,
	SeverityBad:         4,
}

// Rank returns the position of the severity in the total order.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Max returns the more severe of s and other.
func (s Severity) Max(other Severity) Severity {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// ParseSeverity validates a user-supplied severity name. SeverityNone is not
// accepted: it marks the absence of a cycle and cannot be assigned.
func ParseSeverity(name string) (Severity, error) {
	switch s := Severity(name); s {
	case SeveritySkip, SeverityGood, SeverityComplicated, SeverityBad:
		return s, nil
	default:
		return "", fmt.Errorf("unknown severity %q (valid: skip, good, complicated, bad)", name)
	}
}

// SeverityPolicy maps each import kind to the severity a cycle earns for
// carrying that kind. The table is policy, not something derivable from the
// graph, so every entry can be overridden via flags or the config file.
type SeverityPolicy map[ImportKind]Severity

// DefaultSeverityPolicy returns the default kind-to-severity table.
func DefaultSeverityPolicy() SeverityPolicy {
	return SeverityPolicy{
		KindVanilla:     SeverityBad,
		KindParent:      SeverityComplicated,
		KindConditional: SeverityComplicated,
		KindDeferred:    SeverityComplicated,
		KindTypeCheck:   SeveritySkip,
		KindWildcard:    SeverityComplicated,
		KindExternal:    SeveritySkip,
	}
}

// Override returns a copy of the policy with the given entries replacing the
// originals. The receiver is left untouched.
func (p SeverityPolicy) Override(overrides SeverityPolicy) SeverityPolicy {
	out := make(SeverityPolicy, len(p))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Validate checks that the policy covers every known kind with an assignable
// severity.
func (p SeverityPolicy) Validate() error {
	for _, kind := range Kinds() {
		sev, ok := p[kind]
		if !ok {
			return fmt.Errorf("severity policy is missing kind %q", kind)
		}
		if _, err := ParseSeverity(string(sev)); err != nil {
			return fmt.Errorf("severity policy for kind %q: %w", kind, err)
		}
	}
	return nil
}

// CycleSeverity classifies one cycle from the kind sets of its edges.
//
// All kinds across the cycle are pooled and the highest-ranked severity wins,
// with one exception: the vanilla kind only participates when every edge of
// the cycle carries it. A cycle that is unconditional on every leg is a
// genuine runtime cycle; a vanilla import answered by a typing-only or
// deferred import is the lesser problem described by the other leg.
func (p SeverityPolicy) CycleSeverity(edgeKinds []KindSet) Severity {
	if len(edgeKinds) == 0 {
		return SeverityNone
	}

	union := NewKindSet()
	allVanilla := true
	for _, kinds := range edgeKinds {
		union.Union(kinds)
		if !kinds.Has(KindVanilla) {
			allVanilla = false
		}
	}
	if !allVanilla {
		delete(union, KindVanilla)
	}
	if union.Empty() {
		union.Add(KindVanilla)
	}

	kinds := union.Sorted()
	sort.Slice(kinds, func(i, j int) bool {
		return p[kinds[i]].Rank() > p[kinds[j]].Rank()
	})
	return p[kinds[0]]
}

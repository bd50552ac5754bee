package classify

// Kind of one node classification.
type Kind int

const (
	// KindInfo marks an informational placeholder (quota, expiry, ...).
	// Info nodes are excluded from routing groups.
	KindInfo Kind = iota
	// KindRegion marks a real proxy assigned to a region tag.
	KindRegion
	// KindOther marks a real proxy whose name yields no region tag.
	KindOther
)

type Classification struct {
	Kind Kind
	Tag  string // set iff Kind == KindRegion
}

// Strategy assigns exactly one classification to every named node.
// Implementations must be pure: no shared state, safe for concurrent use.
type Strategy interface {
	Classify(names []string) []Classification
}

package domain

import "context"

// Node is a single entry of a coded taxonomy tree as returned to callers.
// Ancestors holds the path from the root (excluding ID) that produced the node and is
// not serialized.
type Node struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Ancestors   []string `json:"-"`
}

// CodedRecord is a stored taxonomy code and its description.
type CodedRecord struct {
	Code        string
	Description string
}

// Rule is a match predicate over a taxonomy code.
type Rule interface {
	// Match reports whether the code belongs to the rule.
	Match(code string) bool
	// String returns a human readable form of the rule, used in logs and errors.
	String() string
}

// NodeRepository defines the read-only queries the tree walker runs against a store of
// coded records. Implementations return records in their natural order (ascending code).
type NodeRepository interface {
	// FindByPattern returns every record whose code satisfies the rule.
	FindByPattern(ctx context.Context, rule Rule) ([]CodedRecord, error)

	// FindByLengthAndPrefix returns every record whose code is exactly length codepoints
	// long and starts with prefix.
	FindByLengthAndPrefix(ctx context.Context, length int, prefix string) ([]CodedRecord, error)
}

// TaxonomyRepository hands out a NodeRepository per taxonomy.
type TaxonomyRepository interface {
	CodeTable(taxonomy string) NodeRepository
}

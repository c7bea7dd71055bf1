package taxonomy

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/fedspend/spendapi/domain"
)

// MaxDepth is the largest number of extra tiers ResolveTree expands.
const MaxDepth = 3

// Walker resolves paths of a taxonomy into the next tier of nodes. It holds no mutable
// state and is safe for concurrent use as long as the repository is.
type Walker struct {
	rules *RuleSet
	repo  domain.NodeRepository
}

// TreeNode is a node together with its expanded children. Children is nil when the
// node was not expanded.
type TreeNode struct {
	domain.Node
	Children []TreeNode `json:"children"`
}

// NewWalker returns a walker over repo using the conventions of rules.
func NewWalker(rules *RuleSet, repo domain.NodeRepository) *Walker {
	return &Walker{rules: rules, repo: repo}
}

// Rules returns the rule set of the walker.
func (w *Walker) Rules() *RuleSet {
	return w.rules
}

// Resolve returns the children of the last key of path.
//
// An empty path lists the top-level groups. A single key is a group label and yields
// the codes matching the group's rule, or nothing when the label is unknown. Longer
// paths end in a parent code and yield the codes one tier below it. Errors from the
// repository are returned unchanged.
func (w *Walker) Resolve(ctx context.Context, path []string) ([]domain.Node, error) {
	switch len(path) {
	case 0:
		return w.toptier(), nil
	case 1:
		return w.fromGroup(ctx, path)
	default:
		return w.fromParent(ctx, path)
	}
}

// ResolveTree resolves path like Resolve and then expands every returned node depth
// more tiers.
func (w *Walker) ResolveTree(ctx context.Context, path []string, depth int) ([]TreeNode, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("depth %d outside 0..%d", depth, MaxDepth)
	}

	nodes, err := w.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	tree := make([]TreeNode, len(nodes))
	for i, node := range nodes {
		tree[i] = TreeNode{Node: node}
		if depth == 0 {
			continue
		}

		childPath := append(slices.Clone(path), node.ID)
		children, err := w.ResolveTree(ctx, childPath, depth-1)
		if err != nil {
			return nil, err
		}
		tree[i].Children = children
	}
	return tree, nil
}

func (w *Walker) toptier() []domain.Node {
	labels := w.rules.Labels()
	nodes := make([]domain.Node, len(labels))
	for i, label := range labels {
		nodes[i] = domain.Node{ID: label, Ancestors: []string{}}
	}
	return nodes
}

func (w *Walker) fromGroup(ctx context.Context, path []string) ([]domain.Node, error) {
	rule, err := w.rules.MatchGroup(path[0])
	if err != nil {
		log.WithField("taxonomy", w.rules.Name()).Debugf("%v", err)
		return []domain.Node{}, nil
	}

	records, err := w.repo.FindByPattern(ctx, rule)
	if err != nil {
		return nil, err
	}
	return toNodes(records, path), nil
}

func (w *Walker) fromParent(ctx context.Context, path []string) ([]domain.Node, error) {
	parent := path[len(path)-1]

	length, ok := w.rules.ExpectedChildLength(parent)
	if !ok {
		log.WithFields(log.Fields{"taxonomy": w.rules.Name(), "parent": parent}).Debug("no child length for parent")
		return []domain.Node{}, nil
	}

	records, err := w.repo.FindByLengthAndPrefix(ctx, length, parent)
	if err != nil {
		return nil, err
	}
	return toNodes(records, path), nil
}

func toNodes(records []domain.CodedRecord, path []string) []domain.Node {
	ancestors := slices.Clone(path)
	nodes := make([]domain.Node, len(records))
	for i, record := range records {
		nodes[i] = domain.Node{
			ID:          record.Code,
			Description: record.Description,
			Ancestors:   ancestors,
		}
	}
	return nodes
}

// Filter keeps the nodes whose ID or description contains term, ignoring case. An
// empty term keeps every node.
func Filter(nodes []domain.Node, term string) []domain.Node {
	if term == "" {
		return nodes
	}

	term = strings.ToLower(term)
	filtered := make([]domain.Node, 0, len(nodes))
	for _, node := range nodes {
		if strings.Contains(strings.ToLower(node.ID), term) ||
			strings.Contains(strings.ToLower(node.Description), term) {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

// FilterTree applies Filter to the top tier of tree, keeping matched nodes with their
// expanded children.
func FilterTree(tree []TreeNode, term string) []TreeNode {
	if term == "" {
		return tree
	}

	nodes := make([]domain.Node, len(tree))
	for i, node := range tree {
		nodes[i] = node.Node
	}

	kept := Filter(nodes, term)
	filtered := make([]TreeNode, 0, len(kept))
	for _, node := range tree {
		if slices.ContainsFunc(kept, func(n domain.Node) bool { return n.ID == node.ID }) {
			filtered = append(filtered, node)
		}
	}
	return filtered
}

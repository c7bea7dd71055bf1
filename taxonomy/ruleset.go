package taxonomy

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/fedspend/spendapi/domain"
)

// ErrUnknownGroup is returned when a label does not name a group of the rule set.
var ErrUnknownGroup = errors.New("unknown group")

// DepthRule returns the code length, in codepoints, of the children of parent.
type DepthRule func(parent string) int

// Group is a named top-level partition of a taxonomy.
type Group struct {
	Label string
	Rule  domain.Rule
}

// RuleSet describes the coding conventions of one taxonomy: its top-level groups in
// display order and the rule giving the child code length below a parent.
type RuleSet struct {
	name   string
	groups []Group
	index  map[string]domain.Rule
	depth  DepthRule
}

// NewRuleSet validates the groups and returns a rule set. Labels must be unique and
// non-empty, and every group needs a rule.
func NewRuleSet(name string, groups []Group, depth DepthRule) (*RuleSet, error) {
	if depth == nil {
		return nil, fmt.Errorf("rule set %s: depth rule is required", name)
	}

	index := make(map[string]domain.Rule, len(groups))
	for i, group := range groups {
		if group.Label == "" {
			return nil, fmt.Errorf("rule set %s: group %d has no label", name, i)
		}
		if group.Rule == nil {
			return nil, fmt.Errorf("rule set %s: group %q has no rule", name, group.Label)
		}
		if _, exists := index[group.Label]; exists {
			return nil, fmt.Errorf("rule set %s: duplicate group %q", name, group.Label)
		}
		index[group.Label] = group.Rule
	}

	return &RuleSet{
		name:   name,
		groups: append([]Group(nil), groups...),
		index:  index,
		depth:  depth,
	}, nil
}

// Name returns the taxonomy name the rule set was registered under.
func (rs *RuleSet) Name() string {
	return rs.name
}

// Labels returns the group labels in their configured order.
func (rs *RuleSet) Labels() []string {
	labels := make([]string, len(rs.groups))
	for i, group := range rs.groups {
		labels[i] = group.Label
	}
	return labels
}

// MatchGroup returns the rule of the group named label.
func (rs *RuleSet) MatchGroup(label string) (domain.Rule, error) {
	rule, ok := rs.index[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, label)
	}
	return rule, nil
}

// ExpectedChildLength returns the code length children of parent must have. ok is
// false when the depth rule is undefined for parent: it panicked or produced a length
// that is not longer than the parent itself.
func (rs *RuleSet) ExpectedChildLength(parent string) (length int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"taxonomy": rs.name, "parent": parent}).Warnf("depth rule panicked: %v", r)
			length, ok = 0, false
		}
	}()

	length = rs.depth(parent)
	if length <= utf8.RuneCountInString(parent) {
		return 0, false
	}
	return length, true
}

// SentinelDepthRule returns the depth rule of taxonomies whose two-character codes jump
// a tier: below a two-character parent that does not start with sentinel, children are
// two codepoints longer. Every other parent has children one codepoint longer.
func SentinelDepthRule(sentinel rune) DepthRule {
	return func(parent string) int {
		n := utf8.RuneCountInString(parent)
		first, _ := utf8.DecodeRuneInString(parent)
		if n == 2 && first != sentinel {
			return n + 2
		}
		return n + 1
	}
}

package taxonomy

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
	"github.com/apex/log"
)

// undefinedLength is returned by scripted depth rules that cannot produce a length.
const undefinedLength = -1

// luaDepthRule evaluates a child_length function defined by a taxonomy script.
// A Lua state is single threaded, so calls are serialized.
type luaDepthRule struct {
	mu    sync.Mutex
	name  string
	state *lua.State
}

// LoadLuaRuleSet builds a rule set from a Lua script.
//
// The script must define a global `groups` array of tables with `label` and `pattern`
// fields, in display order. Patterns are case-insensitive regular expressions. The
// script may define `child_length(parent)` returning the code length of the children
// of parent; when it does not, the sentinel depth rule is used with the first
// character of the global `sentinel` string (default "A").
//
//	groups = {
//	  { label = "Research and Development", pattern = "^A.$" },
//	  { label = "Product", pattern = "^\\d\\d$" },
//	}
//
//	function child_length(parent)
//	  return #parent + 1
//	end
func LoadLuaRuleSet(name, source string) (*RuleSet, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)

	if err := lua.DoString(l, source); err != nil {
		return nil, fmt.Errorf("running taxonomy script %s: %w", name, err)
	}

	groups, err := luaGroups(l)
	if err != nil {
		return nil, fmt.Errorf("reading groups of taxonomy script %s: %w", name, err)
	}

	l.Global("child_length")
	scripted := l.IsFunction(-1)
	l.Pop(1)

	var depth DepthRule
	if scripted {
		rule := &luaDepthRule{name: name, state: l}
		depth = rule.childLength
	} else {
		depth = SentinelDepthRule(luaSentinel(l))
	}

	return NewRuleSet(name, groups, depth)
}

// luaGroups reads the global groups array.
func luaGroups(l *lua.State) ([]Group, error) {
	l.Global("groups")
	defer l.Pop(1)

	if !l.IsTable(-1) {
		return nil, errors.New("script must define a groups table")
	}

	count := l.RawLength(-1)
	groups := make([]Group, 0, count)
	for i := 1; i <= count; i++ {
		l.RawGetInt(-1, i)
		if !l.IsTable(-1) {
			l.Pop(1)
			return nil, fmt.Errorf("group %d is not a table", i)
		}

		label := luaStringField(l, "label")
		pattern := luaStringField(l, "pattern")
		l.Pop(1)

		if pattern == "" {
			return nil, fmt.Errorf("group %q has no pattern", label)
		}
		rule, err := NewRegexRule(pattern)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", label, err)
		}
		groups = append(groups, Group{Label: label, Rule: rule})
	}
	return groups, nil
}

// luaStringField reads a string field of the table on top of the stack.
func luaStringField(l *lua.State, field string) string {
	l.Field(-1, field)
	defer l.Pop(1)

	if l.IsNil(-1) {
		return ""
	}
	value, _ := l.ToString(-1)
	return value
}

func luaSentinel(l *lua.State) rune {
	l.Global("sentinel")
	defer l.Pop(1)

	if value, ok := l.ToString(-1); ok && value != "" {
		r, _ := utf8.DecodeRuneInString(value)
		return r
	}
	return PSCSentinel
}

func (rule *luaDepthRule) childLength(parent string) int {
	rule.mu.Lock()
	defer rule.mu.Unlock()

	l := rule.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global("child_length")
	util.DeepPush(l, parent)
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		log.WithFields(log.Fields{"taxonomy": rule.name, "parent": parent}).Warnf("child_length failed: %v", err)
		return undefinedLength
	}

	length, ok := l.ToInteger(-1)
	if !ok {
		return undefinedLength
	}
	return length
}

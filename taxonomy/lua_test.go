package taxonomy

import (
	"context"
	"sync"
	"testing"

	"github.com/fedspend/spendapi/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const naicsScript = `
groups = {
  { label = "Agriculture", pattern = "^11$" },
  { label = "Manufacturing", pattern = "^3[1-3]$" },
}

function child_length(parent)
  if parent == "bad" then
    error("no children for bad")
  end
  if parent == "text" then
    return "many"
  end
  return #parent + 2
end
`

func TestLoadLuaRuleSet(t *testing.T) {
	t.Run("groups and scripted depth", func(t *testing.T) {
		rs, err := LoadLuaRuleSet("naics", naicsScript)
		require.NoError(t, err)

		assert.Equal(t, "naics", rs.Name())
		assert.Equal(t, []string{"Agriculture", "Manufacturing"}, rs.Labels())

		rule, err := rs.MatchGroup("Manufacturing")
		require.NoError(t, err)
		assert.True(t, rule.Match("32"))
		assert.False(t, rule.Match("34"))

		got, ok := rs.ExpectedChildLength("11")
		require.True(t, ok)
		assert.Equal(t, 4, got)
	})

	t.Run("failing child_length is undefined", func(t *testing.T) {
		rs, err := LoadLuaRuleSet("naics", naicsScript)
		require.NoError(t, err)

		_, ok := rs.ExpectedChildLength("bad")
		assert.False(t, ok)

		_, ok = rs.ExpectedChildLength("text")
		assert.False(t, ok)

		// the state stays usable after a failed call
		got, ok := rs.ExpectedChildLength("1111")
		require.True(t, ok)
		assert.Equal(t, 6, got)
	})

	t.Run("sentinel depth rule by default", func(t *testing.T) {
		rs, err := LoadLuaRuleSet("psc", `
sentinel = "R"
groups = {
  { label = "Research", pattern = "^R.$" },
}
`)
		require.NoError(t, err)

		got, ok := rs.ExpectedChildLength("RA")
		require.True(t, ok)
		assert.Equal(t, 3, got)

		got, ok = rs.ExpectedChildLength("AB")
		require.True(t, ok)
		assert.Equal(t, 4, got)
	})

	t.Run("invalid scripts", func(t *testing.T) {
		scripts := map[string]string{
			"syntax error":    `groups = {`,
			"missing groups":  `x = 1`,
			"group not table": `groups = { "a" }`,
			"missing pattern": `groups = { { label = "a" } }`,
			"bad pattern":     `groups = { { label = "a", pattern = "(" } }`,
			"duplicate label": `groups = { { label = "a", pattern = "a" }, { label = "a", pattern = "b" } }`,
		}
		for name, script := range scripts {
			t.Run(name, func(t *testing.T) {
				_, err := LoadLuaRuleSet("broken", script)
				assert.Error(t, err)
			})
		}
	})
}

func TestLoadLuaRuleSet_Walk(t *testing.T) {
	rs, err := LoadLuaRuleSet("naics", naicsScript)
	require.NoError(t, err)

	repo := newMemRepo(
		domain.CodedRecord{Code: "11", Description: "Agriculture, Forestry, Fishing and Hunting"},
		domain.CodedRecord{Code: "1111", Description: "Oilseed and Grain Farming"},
		domain.CodedRecord{Code: "111110", Description: "Soybean Farming"},
		domain.CodedRecord{Code: "31", Description: "Manufacturing"},
	)
	w := NewWalker(rs, repo)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _ := rs.ExpectedChildLength("1111")
			assert.Equal(t, 6, got)
		}()
	}
	wg.Wait()

	got, err := w.Resolve(context.Background(), []string{"Agriculture", "11"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1111"}, ids(got))
}

package taxonomy

// PSCSentinel is the first character of the Research and Development branch of the
// PSC taxonomy, the only branch with three character codes.
const PSCSentinel = 'A'

// PSCName is the taxonomy name the PSC rule set is served under.
const PSCName = "psc"

// PSC returns the rule set of the Product and Service Code taxonomy.
func PSC() *RuleSet {
	rs, err := NewRuleSet(PSCName, []Group{
		{Label: "Research and Development", Rule: MustRegexRule(`^A.$`)},
		{Label: "Service", Rule: MustRegexRule(`^[b-z]$`)},
		{Label: "Product", Rule: MustRegexRule(`^\d\d$`)},
	}, SentinelDepthRule(PSCSentinel))
	if err != nil {
		panic(err)
	}
	return rs
}

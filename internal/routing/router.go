package routing

import "strings"

// Rule maps a keyword set to a department name. Rules are evaluated in
// order; the first rule with any matching keyword wins.
type Rule struct {
	Keywords   []string
	Department string
}

// Router resolves a department name from free-text issue descriptions.
type Router struct {
	rules    []Rule
	fallback string
}

// DefaultRules routes common appliance, energy, networking and printing
// vocabulary to the corresponding service departments.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords:   []string{"tv", "refrigerator", "washing", "air condition", "ac ", "lg"},
			Department: "Home Appliances",
		},
		{
			Keywords:   []string{"solar", "panel", "inverter"},
			Department: "Solar Energy",
		},
		{
			Keywords:   []string{"router", "wifi", "wi-fi", "network", "tp-link"},
			Department: "Networking",
		},
		{
			Keywords:   []string{"printer", "toner", "cartridge", "epson"},
			Department: "Printing",
		},
	}
}

// DefaultFallback is used when no rule matches.
const DefaultFallback = "Home Appliances"

// NewRouter builds a router over an ordered rule list with an explicit
// fallback department name.
func NewRouter(rules []Rule, fallback string) *Router {
	return &Router{rules: rules, fallback: fallback}
}

// NewDefaultRouter builds a router with the built-in rule table.
func NewDefaultRouter() *Router {
	return NewRouter(DefaultRules(), DefaultFallback)
}

// Resolve returns the department name for the issue description. Matching
// is case-insensitive, first rule wins. This is an ordered rule list, not
// a scored classifier.
func (r *Router) Resolve(issueDescription string) string {
	lowered := strings.ToLower(issueDescription)
	for _, rule := range r.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Department
			}
		}
	}
	return r.fallback
}

// Fallback exposes the configured fallback department name.
func (r *Router) Fallback() string {
	return r.fallback
}

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKeywords(t *testing.T) {
	router := NewDefaultRouter()

	cases := []struct {
		issue string
		want  string
	}{
		{"AC not cooling", "Home Appliances"},
		{"LG TV shows no picture", "Home Appliances"},
		{"solar panel output dropped", "Solar Energy"},
		{"inverter display blank", "Solar Energy"},
		{"wifi drops every few minutes", "Networking"},
		{"TP-Link router rebooting", "Networking"},
		{"printer jams on every page", "Printing"},
		{"Epson cartridge not recognized", "Printing"},
	}
	for _, tc := range cases {
		t.Run(tc.issue, func(t *testing.T) {
			assert.Equal(t, tc.want, router.Resolve(tc.issue))
		})
	}
}

func TestResolveFallback(t *testing.T) {
	router := NewDefaultRouter()
	assert.Equal(t, "Home Appliances", router.Resolve("device makes strange noises"))
	assert.Equal(t, "Home Appliances", router.Fallback())
}

func TestResolveFirstRuleWins(t *testing.T) {
	router := NewRouter([]Rule{
		{Keywords: []string{"panel"}, Department: "First"},
		{Keywords: []string{"panel", "solar"}, Department: "Second"},
	}, "Fallback")

	assert.Equal(t, "First", router.Resolve("solar panel broken"))
}

func TestResolveCaseInsensitive(t *testing.T) {
	router := NewDefaultRouter()
	assert.Equal(t, "Networking", router.Resolve("WIFI signal weak"))
}

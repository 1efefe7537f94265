package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailMatchesWebsite(t *testing.T) {
	cases := []struct {
		name    string
		email   string
		website string
		want    bool
	}{
		{"plain domain", "jane@acme.com", "acme.com", true},
		{"https scheme", "jane@acme.com", "https://acme.com", true},
		{"www prefix", "jane@acme.com", "https://www.acme.com", true},
		{"trailing path", "jane@acme.com", "https://acme.com/careers", true},
		{"subdomain website", "jane@acme.com", "https://jobs.acme.com", true},
		{"case insensitive", "Jane@Acme.COM", "https://ACME.com", true},
		{"different domain", "jane@gmail.com", "https://acme.com", false},
		{"suffix lookalike", "jane@notacme.com", "https://acme.com", false},
		{"missing at sign", "janeacme.com", "https://acme.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, emailMatchesWebsite(tc.email, tc.website))
		})
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmailMergesPayloadFields(t *testing.T) {
	cases := []struct {
		template string
		data     map[string]string
		contains []string
	}{
		{
			template: "interest_received",
			data: map[string]string{
				"CompanyName":      "Initech",
				"OpportunityTitle": "Platform Engineering Team",
			},
			contains: []string{
				"Initech has expressed interest in your team",
				"Platform Engineering Team",
			},
		},
		{
			template: "new_message",
			data:     map[string]string{"SenderName": "Anonymous Team #DEF456"},
			contains: []string{"Anonymous Team #DEF456 sent a new message"},
		},
		{
			template: "company_verified",
			data:     map[string]string{"CompanyName": "Initech"},
			contains: []string{"Initech has passed verification"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			body, err := renderEmail(EmailData{
				Subject:  "Test subject",
				Template: tc.template,
				Data:     tc.data,
			})
			require.NoError(t, err)
			assert.Contains(t, body, "Test subject")
			for _, want := range tc.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestRenderEmailUnknownTemplate(t *testing.T) {
	_, err := renderEmail(EmailData{Template: "password_reset"})
	assert.EqualError(t, err, "unknown email template: password_reset")
}

package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVisibilitySettingsDefaults(t *testing.T) {
	want := VisibilitySettings{HideCurrentEmployer: false, AllowDiscovery: true}

	assert.Equal(t, want, ParseVisibilitySettings(nil))
	assert.Equal(t, want, ParseVisibilitySettings([]byte{}))
	assert.Equal(t, want, ParseVisibilitySettings([]byte(`{}`)))
	assert.Equal(t, want, ParseVisibilitySettings([]byte(`not json`)))
}

func TestParseVisibilitySettingsExplicitValues(t *testing.T) {
	settings := ParseVisibilitySettings([]byte(`{"hide_current_employer": true, "hide_education": true, "allow_discovery": false}`))
	assert.True(t, settings.HideCurrentEmployer)
	assert.True(t, settings.HideEducation)
	assert.False(t, settings.AllowDiscovery)
}

func TestEncodeVisibilitySettingsRoundTrip(t *testing.T) {
	settings := VisibilitySettings{HideCurrentEmployer: true, AllowDiscovery: false}

	raw, err := EncodeVisibilitySettings(settings)
	assert.NoError(t, err)
	assert.Equal(t, settings, ParseVisibilitySettings(raw))
}

func TestParseVisibilitySettingsPartialBlob(t *testing.T) {
	settings := ParseVisibilitySettings([]byte(`{"hide_current_employer": true, "theme": "dark"}`))
	assert.True(t, settings.HideCurrentEmployer)
	assert.True(t, settings.AllowDiscovery)
}

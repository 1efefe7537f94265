package visibility

import "encoding/json"

// VisibilitySettings are a team's display preferences, stored as a free-form
// JSON blob on the team record.
type VisibilitySettings struct {
	HideCurrentEmployer bool `json:"hide_current_employer"`
	HideEducation       bool `json:"hide_education"`
	AllowDiscovery      bool `json:"allow_discovery"`
}

// ParseVisibilitySettings parses a settings blob. Absent fields, an empty
// blob and malformed JSON all yield the defaults: employers shown, discovery
// allowed.
func ParseVisibilitySettings(raw []byte) VisibilitySettings {
	settings := VisibilitySettings{AllowDiscovery: true}
	if len(raw) == 0 {
		return settings
	}

	var blob struct {
		HideCurrentEmployer *bool `json:"hide_current_employer"`
		HideEducation       *bool `json:"hide_education"`
		AllowDiscovery      *bool `json:"allow_discovery"`
	}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return settings
	}

	if blob.HideCurrentEmployer != nil {
		settings.HideCurrentEmployer = *blob.HideCurrentEmployer
	}
	if blob.HideEducation != nil {
		settings.HideEducation = *blob.HideEducation
	}
	if blob.AllowDiscovery != nil {
		settings.AllowDiscovery = *blob.AllowDiscovery
	}
	return settings
}

// EncodeVisibilitySettings serializes settings back to the blob form
// stored on the team record.
func EncodeVisibilitySettings(settings VisibilitySettings) ([]byte, error) {
	return json.Marshal(settings)
}

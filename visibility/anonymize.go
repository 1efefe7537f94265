package visibility

import (
	"fmt"
	"strings"

	"liftout/models"
)

const anonymousLabelPrefix = "Anonymous Team #"

// AnonymizedMember is the masked projection of a roster entry. Email, photo
// and bio are dropped outright rather than masked; role, experience and lead
// status are decision-relevant and survive unchanged.
type AnonymizedMember struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	Title           string `json:"title"`
	YearsExperience int    `json:"years_experience"`
	IsLead          bool   `json:"is_lead"`
}

// AnonymizedTeam is the masked projection of a team profile, derived fresh on
// every read. IsAnonymized marks the projection so consumers never confuse it
// with raw team data, and MemberCount lets them render "Team of N" without
// counting the masked roster.
type AnonymizedTeam struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Location     string             `json:"location"`
	Industry     string             `json:"industry"`
	Visibility   string             `json:"visibility"`
	IsAnonymized bool               `json:"is_anonymized"`
	MemberCount  int                `json:"member_count"`
	Members      []AnonymizedMember `json:"members"`
}

// AnonymizeTeam produces the masked projection of a team. The function is
// pure and deterministic: the label is derived from the team id alone, so the
// same team is labeled consistently across views and re-anonymizing an
// already-masked profile cannot corrupt the label.
func (e *Engine) AnonymizeTeam(team *models.Team) *AnonymizedTeam {
	out := &AnonymizedTeam{
		ID:           team.ID,
		Name:         anonymousLabel(team.ID),
		Description:  e.redactor.MaskCompanyNames(team.Description),
		Location:     e.redactor.GeneralizeLocation(team.Location),
		Industry:     team.Industry,
		Visibility:   team.Visibility,
		IsAnonymized: true,
		MemberCount:  len(team.Members),
		Members:      make([]AnonymizedMember, 0, len(team.Members)),
	}

	for i, m := range team.Members {
		out.Members = append(out.Members, AnonymizedMember{
			Name:            fmt.Sprintf("Team Member %d", i+1),
			Role:            m.Role,
			Title:           e.redactor.GeneralizeTitle(m.Title),
			YearsExperience: m.YearsExperience,
			IsLead:          m.IsLead,
		})
	}

	return out
}

// anonymousLabel derives the stable pseudo-identifier for a team from the
// last six characters of its id, uppercased.
func anonymousLabel(teamID string) string {
	suffix := teamID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return anonymousLabelPrefix + strings.ToUpper(suffix)
}

package visibility

import (
	"context"

	"liftout/models"
)

// NDAStatus reports whether a viewer must accept terms before a conversation
// with this team may reveal the team's identity, and whether they already did.
type NDAStatus struct {
	Required bool `json:"required"`
	Accepted bool `json:"accepted"`
}

// RequiresNDAAcceptance checks the consent gate for a (team, user) pair.
// Acceptance is required whenever the team operates in anonymous mode or has
// opted into anonymous display. When no conversation exists yet the answer is
// required-but-not-accepted: consent must be explicit, never implied by the
// absence of a record.
func (e *Engine) RequiresNDAAcceptance(ctx context.Context, team *models.Team, userID string) (NDAStatus, error) {
	required := team.Visibility == models.VisibilityAnonymous || team.IsAnonymous
	if !required {
		return NDAStatus{}, nil
	}

	conv, err := e.conversations.FindByTeamAndUser(ctx, team.ID, userID)
	if err != nil {
		return NDAStatus{}, err
	}
	if conv == nil {
		return NDAStatus{Required: true}, nil
	}

	accepted, err := e.consents.HasAccepted(ctx, conv.ID, userID)
	if err != nil {
		return NDAStatus{}, err
	}
	return NDAStatus{Required: true, Accepted: accepted}, nil
}

// AcceptNDA records the user's acceptance for a conversation. The operation
// is idempotent: repeat calls change nothing and never disturb other users'
// recorded acceptances or timestamps.
func (e *Engine) AcceptNDA(ctx context.Context, conversationID, userID string) error {
	return e.consents.Record(ctx, conversationID, userID)
}

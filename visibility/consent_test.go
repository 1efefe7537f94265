package visibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftout/models"
)

func TestRequiresNDAAcceptanceNotRequiredForPlainTeams(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityPublic}

	status, err := engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	require.NoError(t, err)
	assert.Equal(t, NDAStatus{}, status)
}

func TestRequiresNDAAcceptanceForAnonymousDisplayOptIn(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	// A public team with anonymous display opted in still gates identity.
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityPublic, IsAnonymous: true}

	status, err := engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	require.NoError(t, err)
	assert.Equal(t, NDAStatus{Required: true}, status)
}

func TestRequiresNDAAcceptanceNoConversationYet(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous}

	status, err := engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	require.NoError(t, err)
	assert.True(t, status.Required)
	assert.False(t, status.Accepted)
}

func TestRequiresNDAAcceptanceReflectsRecordedConsent(t *testing.T) {
	engine, _, _, conversations, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous}
	conversations.conversations["team-1/user-1"] = &models.Conversation{ID: "conv-1", TeamID: "team-1", UserID: "user-1"}

	status, err := engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	require.NoError(t, err)
	assert.Equal(t, NDAStatus{Required: true, Accepted: false}, status)

	require.NoError(t, engine.AcceptNDA(context.Background(), "conv-1", "user-1"))

	status, err = engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	require.NoError(t, err)
	assert.Equal(t, NDAStatus{Required: true, Accepted: true}, status)

	// Another participant's acceptance is untouched and independent.
	status, err = engine.RequiresNDAAcceptance(context.Background(), team, "user-2")
	require.NoError(t, err)
	assert.False(t, status.Accepted)
}

func TestAcceptNDAIsIdempotent(t *testing.T) {
	engine, _, _, _, consents := newTestEngine()

	require.NoError(t, engine.AcceptNDA(context.Background(), "conv-1", "user-1"))
	require.NoError(t, engine.AcceptNDA(context.Background(), "conv-1", "user-1"))

	assert.Equal(t, 1, consents.records["conv-1/user-1"])
}

func TestRequiresNDAAcceptancePropagatesStorageErrors(t *testing.T) {
	engine, _, _, conversations, _ := newTestEngine()
	conversations.err = errors.New("timeout")
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous}

	_, err := engine.RequiresNDAAcceptance(context.Background(), team, "user-1")
	assert.EqualError(t, err, "timeout")
}

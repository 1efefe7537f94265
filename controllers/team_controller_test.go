package controller

import (
	"context"
	"errors"
	"testing"

	"liftout/models"
	"liftout/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMembershipStore struct {
	err error
}

func (s *stubMembershipStore) FindActiveMembership(context.Context, string, string) (*models.TeamMember, error) {
	return nil, s.err
}

type stubCompanyStore struct {
	membership *visibility.CompanyMembership
}

func (s *stubCompanyStore) FindCompanyMembership(context.Context, string) (*visibility.CompanyMembership, error) {
	return s.membership, nil
}

type stubConversationStore struct{}

func (stubConversationStore) FindByTeamAndUser(context.Context, string, string) (*models.Conversation, error) {
	return nil, nil
}

type stubConsentStore struct{}

func (stubConsentStore) HasAccepted(context.Context, string, string) (bool, error) { return false, nil }
func (stubConsentStore) Record(context.Context, string, string) error              { return nil }

func newBrowseEngine(memberships *stubMembershipStore, companies *stubCompanyStore) *visibility.Engine {
	return visibility.NewEngine(memberships, companies, stubConversationStore{}, stubConsentStore{}, nil, nil)
}

func TestBrowseTeamResultsFiltersAndProjects(t *testing.T) {
	engine := newBrowseEngine(&stubMembershipStore{}, &stubCompanyStore{
		membership: &visibility.CompanyMembership{CompanyID: "c1", VerificationStatus: models.VerificationVerified},
	})

	teams := []models.Team{
		{ID: "team-1", Name: "Open Team", Visibility: models.VisibilityPublic, CreatedBy: "owner"},
		{ID: "team-2", Name: "Hidden Team", Visibility: models.VisibilityPublic, CreatedBy: "owner",
			Settings: `{"allow_discovery": false}`},
		{ID: "team-abc123def456", Name: "Shadow Team", Visibility: models.VisibilityAnonymous, CreatedBy: "owner"},
	}

	results, err := browseTeamResults(context.Background(), engine, teams, "viewer", visibility.ViewerCompany)
	require.NoError(t, err)
	require.Len(t, results, 2)

	full, ok := results[0].(models.Team)
	require.True(t, ok)
	assert.Equal(t, "Open Team", full.Name)

	projection, ok := results[1].(*visibility.AnonymizedTeam)
	require.True(t, ok)
	assert.Equal(t, "Anonymous Team #DEF456", projection.Name)
}

func TestBrowseTeamResultsFailsOnStorageError(t *testing.T) {
	engine := newBrowseEngine(&stubMembershipStore{err: errors.New("connection refused")}, &stubCompanyStore{})

	teams := []models.Team{
		{ID: "team-1", Name: "Open Team", Visibility: models.VisibilityPublic, CreatedBy: "owner"},
	}

	results, err := browseTeamResults(context.Background(), engine, teams, "viewer", visibility.ViewerIndividual)
	assert.Nil(t, results)
	assert.EqualError(t, err, "connection refused")
}

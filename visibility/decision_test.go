package visibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftout/models"
)

// In-memory port fakes shared by the package tests.

type fakeMembershipStore struct {
	members map[string]map[string]*models.TeamMember // teamID -> userID -> member
	err     error
}

func (f *fakeMembershipStore) FindActiveMembership(_ context.Context, teamID, userID string) (*models.TeamMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[teamID][userID], nil
}

type fakeCompanyStore struct {
	memberships map[string]*CompanyMembership // userID -> membership
	err         error
}

func (f *fakeCompanyStore) FindCompanyMembership(_ context.Context, userID string) (*CompanyMembership, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.memberships[userID], nil
}

type fakeConversationStore struct {
	conversations map[string]*models.Conversation // teamID+"/"+userID -> conversation
	err           error
}

func (f *fakeConversationStore) FindByTeamAndUser(_ context.Context, teamID, userID string) (*models.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conversations[teamID+"/"+userID], nil
}

type fakeConsentStore struct {
	records map[string]int // conversationID+"/"+userID -> record count
	err     error
}

func (f *fakeConsentStore) HasAccepted(_ context.Context, conversationID, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.records[conversationID+"/"+userID] > 0, nil
}

func (f *fakeConsentStore) Record(_ context.Context, conversationID, userID string) error {
	if f.err != nil {
		return f.err
	}
	if f.records == nil {
		f.records = make(map[string]int)
	}
	key := conversationID + "/" + userID
	// Mirrors the conditional insert the real store performs.
	if f.records[key] == 0 {
		f.records[key] = 1
	}
	return nil
}

func newTestEngine() (*Engine, *fakeMembershipStore, *fakeCompanyStore, *fakeConversationStore, *fakeConsentStore) {
	memberships := &fakeMembershipStore{members: make(map[string]map[string]*models.TeamMember)}
	companies := &fakeCompanyStore{memberships: make(map[string]*CompanyMembership)}
	conversations := &fakeConversationStore{conversations: make(map[string]*models.Conversation)}
	consents := &fakeConsentStore{records: make(map[string]int)}
	engine := NewEngine(memberships, companies, conversations, consents, nil, nil)
	return engine, memberships, companies, conversations, consents
}

func (f *fakeMembershipStore) add(teamID, userID string) {
	if f.members[teamID] == nil {
		f.members[teamID] = make(map[string]*models.TeamMember)
	}
	f.members[teamID][userID] = &models.TeamMember{TeamID: teamID, UserID: userID, Status: models.MemberStatusActive}
}

func TestCanViewTeamCreatorAlwaysSeesPlainly(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	for _, mode := range []string{models.VisibilityPublic, models.VisibilityPrivate, models.VisibilityAnonymous} {
		team := &models.Team{ID: "team-1", Visibility: mode, IsAnonymous: true, CreatedBy: "creator"}

		decision, err := engine.CanViewTeam(context.Background(), team, "creator", ViewerIndividual)
		require.NoError(t, err)
		assert.True(t, decision.CanView, "mode %s", mode)
		assert.False(t, decision.ShowAnonymous, "mode %s", mode)
	}
}

func TestCanViewTeamMemberSeesAnonymousTeamPlainly(t *testing.T) {
	engine, memberships, _, _, _ := newTestEngine()
	memberships.add("team-1", "member-1")

	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous, IsAnonymous: true, CreatedBy: "creator"}

	decision, err := engine.CanViewTeam(context.Background(), team, "member-1", ViewerIndividual)
	require.NoError(t, err)
	assert.Equal(t, Decision{CanView: true}, decision)
}

func TestCanViewTeamAdminBypassesVisibility(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityPrivate, CreatedBy: "creator"}

	decision, err := engine.CanViewTeam(context.Background(), team, "admin-1", ViewerAdmin)
	require.NoError(t, err)
	assert.Equal(t, Decision{CanView: true}, decision)
}

func TestCanViewTeamPublicMirrorsAnonymousOptIn(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	plain := &models.Team{ID: "team-1", Visibility: models.VisibilityPublic, CreatedBy: "creator"}
	decision, err := engine.CanViewTeam(context.Background(), plain, "viewer", ViewerIndividual)
	require.NoError(t, err)
	assert.Equal(t, Decision{CanView: true}, decision)

	optedIn := &models.Team{ID: "team-2", Visibility: models.VisibilityPublic, IsAnonymous: true, CreatedBy: "creator"}
	decision, err = engine.CanViewTeam(context.Background(), optedIn, "viewer", ViewerIndividual)
	require.NoError(t, err)
	assert.Equal(t, Decision{CanView: true, ShowAnonymous: true}, decision)
}

func TestCanViewTeamPrivateDeniesOutsiders(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityPrivate, CreatedBy: "creator"}

	for _, vt := range []ViewerType{ViewerIndividual, ViewerCompany} {
		decision, err := engine.CanViewTeam(context.Background(), team, "outsider", vt)
		require.NoError(t, err)
		assert.False(t, decision.CanView)
		assert.Equal(t, ReasonPrivate, decision.Reason)
	}
}

func TestCanViewTeamAnonymousDeniesIndividuals(t *testing.T) {
	engine, _, companies, _, _ := newTestEngine()
	// Even a verified company affiliation does not help an individual-typed viewer.
	companies.memberships["viewer"] = &CompanyMembership{CompanyID: "acme-co", VerificationStatus: models.VerificationVerified}

	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous, CreatedBy: "creator"}

	decision, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerIndividual)
	require.NoError(t, err)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonCompanyOnly, decision.Reason)
}

func TestCanViewTeamAnonymousRequiresVerification(t *testing.T) {
	engine, _, companies, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: models.VisibilityAnonymous, CreatedBy: "creator"}

	// No company affiliation at all.
	decision, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerCompany)
	require.NoError(t, err)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonVerificationRequired, decision.Reason)

	// Affiliated but not yet verified.
	companies.memberships["viewer"] = &CompanyMembership{CompanyID: "acme-co", VerificationStatus: models.VerificationPending}
	decision, err = engine.CanViewTeam(context.Background(), team, "viewer", ViewerCompany)
	require.NoError(t, err)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonVerificationRequired, decision.Reason)
}

func TestCanViewTeamBlockedCompanyGetsGenericReason(t *testing.T) {
	engine, _, companies, _, _ := newTestEngine()
	companies.memberships["viewer"] = &CompanyMembership{CompanyID: "acme-co", VerificationStatus: models.VerificationVerified}

	team := &models.Team{
		ID:               "team-abc123def456",
		Visibility:       models.VisibilityAnonymous,
		CreatedBy:        "creator",
		BlockedCompanies: []string{"acme-co"},
	}

	decision, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerCompany)
	require.NoError(t, err)
	assert.False(t, decision.CanView)
	assert.NotContains(t, decision.Reason, "blocked")
	assert.NotContains(t, decision.Reason, "acme-co")
}

func TestCanViewTeamVerifiedCompanySeesAnonymized(t *testing.T) {
	engine, _, companies, _, _ := newTestEngine()
	companies.memberships["viewer"] = &CompanyMembership{CompanyID: "other-co", VerificationStatus: models.VerificationVerified}

	team := &models.Team{
		ID:               "team-abc123def456",
		Visibility:       models.VisibilityAnonymous,
		CreatedBy:        "creator",
		BlockedCompanies: []string{"acme-co"},
	}

	decision, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerCompany)
	require.NoError(t, err)
	assert.Equal(t, Decision{CanView: true, ShowAnonymous: true}, decision)

	assert.Equal(t, "Anonymous Team #DEF456", engine.AnonymizeTeam(team).Name)
}

func TestCanViewTeamUnknownModeFailsClosed(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := &models.Team{ID: "team-1", Visibility: "trial", CreatedBy: "creator"}

	decision, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerCompany)
	require.NoError(t, err)
	assert.False(t, decision.CanView)
	assert.Equal(t, ReasonUnavailable, decision.Reason)
}

func TestCanViewTeamPropagatesStorageErrors(t *testing.T) {
	engine, memberships, _, _, _ := newTestEngine()
	memberships.err = errors.New("connection refused")

	team := &models.Team{ID: "team-1", Visibility: models.VisibilityPublic, CreatedBy: "creator"}

	_, err := engine.CanViewTeam(context.Background(), team, "viewer", ViewerIndividual)
	assert.EqualError(t, err, "connection refused")
}

func TestIsCompanyBlockedTreatsMissingListAsEmpty(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	assert.False(t, engine.IsCompanyBlocked(&models.Team{}, "acme-co"))
	assert.False(t, engine.IsCompanyBlocked(&models.Team{BlockedCompanies: []string{}}, "acme-co"))
	assert.True(t, engine.IsCompanyBlocked(&models.Team{BlockedCompanies: []string{"acme-co"}}, "acme-co"))
	assert.False(t, engine.IsCompanyBlocked(&models.Team{BlockedCompanies: []string{"acme-co"}}, ""))
}

func TestIsVerifiedCompanyUser(t *testing.T) {
	engine, _, companies, _, _ := newTestEngine()

	vc, err := engine.IsVerifiedCompanyUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, vc.IsVerified)

	companies.memberships["pending"] = &CompanyMembership{CompanyID: "c1", VerificationStatus: models.VerificationPending}
	vc, err = engine.IsVerifiedCompanyUser(context.Background(), "pending")
	require.NoError(t, err)
	assert.False(t, vc.IsVerified)
	assert.Empty(t, vc.CompanyID)

	companies.memberships["verified"] = &CompanyMembership{CompanyID: "c2", VerificationStatus: models.VerificationVerified}
	vc, err = engine.IsVerifiedCompanyUser(context.Background(), "verified")
	require.NoError(t, err)
	assert.True(t, vc.IsVerified)
	assert.Equal(t, "c2", vc.CompanyID)
}

func TestIsTeamMember(t *testing.T) {
	engine, memberships, _, _, _ := newTestEngine()
	memberships.add("team-1", "member-1")

	ok, err := engine.IsTeamMember(context.Background(), "team-1", "member-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.IsTeamMember(context.Background(), "team-1", "stranger")
	require.NoError(t, err)
	assert.False(t, ok)
}

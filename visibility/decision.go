package visibility

import (
	"context"
	"log"

	"liftout/models"
)

// ViewerType is the coarse classification of the requesting user.
type ViewerType string

const (
	ViewerIndividual ViewerType = "individual"
	ViewerCompany    ViewerType = "company"
	ViewerAdmin      ViewerType = "admin"
)

// Decision is the outcome of a visibility check. It is computed fresh on
// every read and never persisted.
type Decision struct {
	CanView       bool   `json:"can_view"`
	ShowAnonymous bool   `json:"show_anonymous"`
	Reason        string `json:"reason,omitempty"`
}

// Denial reasons. The blocked-company case deliberately reuses the generic
// "not available" wording: revealing that the viewer was blocked would leak
// the block itself.
const (
	ReasonPrivate              = "This team's profile is private and visible to members only"
	ReasonCompanyOnly          = "Anonymous team profiles are only visible to companies"
	ReasonVerificationRequired = "Viewing anonymous team profiles requires company verification"
	ReasonUnavailable          = "This team's profile is not available"
)

// VerifiedCompany is the resolver's answer for a company-typed viewer.
type VerifiedCompany struct {
	IsVerified bool   `json:"is_verified"`
	CompanyID  string `json:"company_id,omitempty"`
}

// Engine is the visibility policy engine. Construct with NewEngine.
type Engine struct {
	memberships   MembershipStore
	companies     CompanyStore
	conversations ConversationStore
	consents      ConsentStore
	redactor      Redactor
	logger        *log.Logger
}

// NewEngine wires the engine to its storage ports. A nil redactor selects the
// default HeuristicRedactor.
func NewEngine(memberships MembershipStore, companies CompanyStore, conversations ConversationStore, consents ConsentStore, redactor Redactor, logger *log.Logger) *Engine {
	if redactor == nil {
		redactor = HeuristicRedactor{}
	}
	return &Engine{
		memberships:   memberships,
		companies:     companies,
		conversations: conversations,
		consents:      consents,
		redactor:      redactor,
		logger:        logger,
	}
}

// CanViewTeam is the single authority for "can this viewer see this team, and
// how". Rules are ordered and the first match wins; the ownership and
// membership checks must run before the visibility switch so a team's own
// people always see their un-anonymized profile.
func (e *Engine) CanViewTeam(ctx context.Context, team *models.Team, viewerID string, viewerType ViewerType) (Decision, error) {
	// 1. Creators always see their own team plainly.
	if team.CreatedBy != "" && team.CreatedBy == viewerID {
		return Decision{CanView: true}, nil
	}

	// 2. Active team members get full access regardless of visibility mode.
	member, err := e.memberships.FindActiveMembership(ctx, team.ID, viewerID)
	if err != nil {
		return Decision{}, err
	}
	if member != nil {
		return Decision{CanView: true}, nil
	}

	// 3. Admins get full access.
	if viewerType == ViewerAdmin {
		return Decision{CanView: true}, nil
	}

	// 4. Everyone else is governed by the team's visibility mode.
	switch team.Visibility {
	case models.VisibilityPublic:
		// A public team may still opt into anonymous display.
		return Decision{CanView: true, ShowAnonymous: team.IsAnonymous}, nil

	case models.VisibilityPrivate:
		return Decision{Reason: ReasonPrivate}, nil

	case models.VisibilityAnonymous:
		if viewerType != ViewerCompany {
			return Decision{Reason: ReasonCompanyOnly}, nil
		}
		vc, err := e.IsVerifiedCompanyUser(ctx, viewerID)
		if err != nil {
			return Decision{}, err
		}
		if !vc.IsVerified {
			return Decision{Reason: ReasonVerificationRequired}, nil
		}
		if e.IsCompanyBlocked(team, vc.CompanyID) {
			// Generic reason on purpose; see the constant block above.
			return Decision{Reason: ReasonUnavailable}, nil
		}
		return Decision{CanView: true, ShowAnonymous: true}, nil

	default:
		// Unknown modes fail closed. A value outside the known three means a
		// mode was added without updating this switch; exposing the profile
		// in that situation would silently widen access.
		if e.logger != nil {
			e.logger.Printf("unknown visibility mode %q on team %s, denying", team.Visibility, team.ID)
		}
		return Decision{Reason: ReasonUnavailable}, nil
	}
}

// IsTeamMember reports whether the user has an active membership on the team.
// Exposed for reuse by other authorization checks.
func (e *Engine) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	member, err := e.memberships.FindActiveMembership(ctx, teamID, userID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

// IsVerifiedCompanyUser resolves the user's company affiliation. Users whose
// company has not passed verification are treated as ordinary outsiders.
func (e *Engine) IsVerifiedCompanyUser(ctx context.Context, userID string) (VerifiedCompany, error) {
	m, err := e.companies.FindCompanyMembership(ctx, userID)
	if err != nil {
		return VerifiedCompany{}, err
	}
	if m == nil || m.VerificationStatus != models.VerificationVerified {
		return VerifiedCompany{}, nil
	}
	return VerifiedCompany{IsVerified: true, CompanyID: m.CompanyID}, nil
}

// IsCompanyBlocked reports whether companyID appears in the team's blocked
// list. A missing or empty list means nothing is blocked; malformed data must
// never itself deny access to non-blocked viewers.
func (e *Engine) IsCompanyBlocked(team *models.Team, companyID string) bool {
	if companyID == "" {
		return false
	}
	for _, blocked := range team.BlockedCompanies {
		if blocked == companyID {
			return true
		}
	}
	return false
}

package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liftout/models"
)

func sampleTeam() *models.Team {
	return &models.Team{
		ID:          "team-abc123def456",
		Name:        "Apex Quant Group",
		Description: "Former trading desk from Goldman Sachs Group, now at Initech building risk tooling.",
		Location:    "New York, NY",
		Industry:    "Finance",
		Visibility:  models.VisibilityAnonymous,
		Members: []models.TeamMember{
			{
				Name:            "Ada Smith",
				Role:            "owner",
				Title:           "Senior Backend Engineer",
				Bio:             "Built the settlement pipeline.",
				PhotoURL:        "https://cdn.example.com/ada.jpg",
				ContactEmail:    "ada@example.com",
				YearsExperience: 11,
				IsLead:          true,
			},
			{
				Name:            "Bob Jones",
				Role:            "member",
				Title:           "VP of People Operations",
				YearsExperience: 8,
			},
			{
				Name:            "Carol Wu",
				Role:            "member",
				Title:           "Ninja",
				YearsExperience: 3,
			},
		},
	}
}

func TestAnonymizeTeamLabelDerivation(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	masked := engine.AnonymizeTeam(sampleTeam())
	assert.Equal(t, "Anonymous Team #DEF456", masked.Name)
	assert.True(t, masked.IsAnonymized)
}

func TestAnonymizeTeamDeterministic(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := sampleTeam()

	first := engine.AnonymizeTeam(team)
	second := engine.AnonymizeTeam(team)
	assert.Equal(t, first, second)
}

func TestAnonymizeTeamIdempotentOnLabel(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := sampleTeam()

	once := engine.AnonymizeTeam(team)

	// Re-anonymizing the already-masked projection must not corrupt the label.
	remasked := engine.AnonymizeTeam(&models.Team{
		ID:          once.ID,
		Name:        once.Name,
		Description: once.Description,
		Location:    once.Location,
		Visibility:  once.Visibility,
	})
	assert.Equal(t, once.Name, remasked.Name)
}

func TestAnonymizeTeamPreservesMemberCount(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()
	team := sampleTeam()

	masked := engine.AnonymizeTeam(team)
	assert.Len(t, masked.Members, len(team.Members))
	assert.Equal(t, len(team.Members), masked.MemberCount)

	empty := engine.AnonymizeTeam(&models.Team{ID: "team-xyz"})
	assert.Empty(t, empty.Members)
	assert.Zero(t, empty.MemberCount)
}

func TestAnonymizeTeamMasksMembers(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	masked := engine.AnonymizeTeam(sampleTeam())

	lead := masked.Members[0]
	assert.Equal(t, "Team Member 1", lead.Name)
	assert.Equal(t, "owner", lead.Role)
	assert.Equal(t, "Senior Engineer", lead.Title)
	assert.Equal(t, 11, lead.YearsExperience)
	assert.True(t, lead.IsLead)

	assert.Equal(t, "Team Member 2", masked.Members[1].Name)
	assert.Equal(t, "VP-level People", masked.Members[1].Title)

	// Unclassifiable titles fall back to the generic label.
	assert.Equal(t, "Professional", masked.Members[2].Title)
}

func TestAnonymizeTeamRedactsDescriptionAndLocation(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	masked := engine.AnonymizeTeam(sampleTeam())
	assert.NotContains(t, masked.Description, "Goldman")
	assert.NotContains(t, masked.Description, "Initech")
	assert.Equal(t, "Northeast US", masked.Location)
}

func TestMaskCompanyNames(t *testing.T) {
	r := HeuristicRedactor{}

	cases := []struct {
		in   string
		want string
	}{
		{"We left Acme Corp last year.", "We left [Company] last year."},
		{"Previously at Stripe.", "Previously at [Company]."},
		{"Worked with Initech Partners and Hooli LLC.", "Worked with [Company] and [Company]."},
		{"no capitalized names here", "no capitalized names here"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.MaskCompanyNames(tc.in), "input %q", tc.in)
	}
}

func TestGeneralizeLocation(t *testing.T) {
	r := HeuristicRedactor{}

	assert.Equal(t, "Northeast US", r.GeneralizeLocation("New York"))
	assert.Equal(t, "Northeast US", r.GeneralizeLocation("new york, ny"))
	assert.Equal(t, "United Kingdom", r.GeneralizeLocation("London"))
	assert.Equal(t, "United Kingdom", r.GeneralizeLocation("UK"))
	assert.Equal(t, "United Kingdom", r.GeneralizeLocation("England"))
	assert.Equal(t, "Remote", r.GeneralizeLocation("Remote (US timezones)"))
	// Unrecognized strings pass through unchanged.
	assert.Equal(t, "Springfield", r.GeneralizeLocation("Springfield"))
	assert.Equal(t, "", r.GeneralizeLocation(""))
}

func TestGeneralizeTitle(t *testing.T) {
	r := HeuristicRedactor{}

	cases := []struct {
		in   string
		want string
	}{
		{"Senior Backend Engineer", "Senior Engineer"},
		{"VP of People Operations", "VP-level People"},
		{"Sr. Product Designer", "Senior Designer"},
		{"Lead Developer", "Lead Engineer"},
		{"Director of Marketing", "Director Marketing"},
		{"Head of Sales", "Head Sales"},
		{"Junior Accountant", "Junior Professional"},
		{"Staff Attorney", "Legal"},
		{"Operations Manager", "Manager Operations"},
		{"Ninja", "Professional"},
		{"", "Professional"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.GeneralizeTitle(tc.in), "title %q", tc.in)
	}
}

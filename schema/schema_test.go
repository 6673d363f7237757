package schema_test

import (
	"testing"

	"github.com/smallnest/leadscout/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() schema.Person {
	return schema.Person{
		Name:        "Jane Doe",
		Role:        "Technical Recruiter",
		Company:     "Acme Corp",
		Source:      schema.SourceLinkedIn,
		LinkedInURL: "https://www.linkedin.com/in/janedoe",
	}
}

func TestPersonValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*schema.Person)
		wantErr bool
	}{
		{name: "valid linkedin person", mutate: func(p *schema.Person) {}},
		{
			name: "valid web person",
			mutate: func(p *schema.Person) {
				p.Source = schema.SourceWeb
				p.WebURL = "https://acme.example/team"
			},
		},
		{
			name:    "missing name",
			mutate:  func(p *schema.Person) { p.Name = "" },
			wantErr: true,
		},
		{
			name:    "placeholder name",
			mutate:  func(p *schema.Person) { p.Name = "Recruiter name not shown" },
			wantErr: true,
		},
		{
			name:    "missing role",
			mutate:  func(p *schema.Person) { p.Role = "" },
			wantErr: true,
		},
		{
			name:    "missing company",
			mutate:  func(p *schema.Person) { p.Company = "  " },
			wantErr: true,
		},
		{
			name:    "unknown source",
			mutate:  func(p *schema.Person) { p.Source = "crystal_ball" },
			wantErr: true,
		},
		{
			name:    "linkedin source with web url",
			mutate:  func(p *schema.Person) { p.WebURL = "https://acme.example" },
			wantErr: true,
		},
		{
			name: "web source without web url",
			mutate: func(p *schema.Person) {
				p.Source = schema.SourceCompanyPage
				p.WebURL = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPerson()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				var verr *schema.ValidationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmailResultValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  schema.EmailResult
		wantErr bool
	}{
		{
			name: "found email",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				Email: "jane@acme.example", EmailSource: schema.EmailFromSearch,
			},
		},
		{
			name: "guessed email",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				Email: "jdoe@acme.example", EmailSource: schema.EmailGuessed,
			},
		},
		{
			name: "none without email",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				EmailSource: schema.EmailNone,
			},
		},
		{
			name: "missing role",
			result: schema.EmailResult{
				Name: "Jane Doe", Company: "Acme Corp",
				Email: "jane@acme.example", EmailSource: schema.EmailFromSearch,
			},
			wantErr: true,
		},
		{
			name: "missing company",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter",
				Email: "jane@acme.example", EmailSource: schema.EmailFromSearch,
			},
			wantErr: true,
		},
		{
			name: "none with email is invalid",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				Email: "jane@acme.example", EmailSource: schema.EmailNone,
			},
			wantErr: true,
		},
		{
			name: "search without email is invalid",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				EmailSource: schema.EmailFromSearch,
			},
			wantErr: true,
		},
		{
			name: "unknown email source",
			result: schema.EmailResult{
				Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
				Email: "jane@acme.example", EmailSource: "psychic",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.result.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearchResponseValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    schema.SearchResponse
		wantErr bool
	}{
		{
			name: "people found",
			resp: schema.SearchResponse{
				Status:  schema.StatusPeopleFound,
				Message: "I found one recruiter. Want me to broaden the role search?",
				People:  []schema.Person{validPerson()},
			},
		},
		{
			name: "greeting has no lists",
			resp: schema.SearchResponse{
				Status:  schema.StatusGreeting,
				Message: "Hi! Tell me who you are looking for.",
			},
		},
		{
			name: "clarification needs options",
			resp: schema.SearchResponse{
				Status:  schema.StatusClarificationNeeded,
				Message: "A couple of companies match that name. Which one did you mean?",
				CompanyOptions: []schema.CompanyOption{
					{Name: "Apex Robotics", Domain: "apexrobotics.example", Description: "industrial robots"},
					{Name: "Apex Health", Description: "clinical software"},
				},
			},
		},
		{
			name: "people found without people",
			resp: schema.SearchResponse{
				Status:  schema.StatusPeopleFound,
				Message: "found some",
			},
			wantErr: true,
		},
		{
			name: "two lists populated",
			resp: schema.SearchResponse{
				Status:  schema.StatusPeopleFound,
				Message: "found some",
				People:  []schema.Person{validPerson()},
				Emails: []schema.EmailResult{{
					Name: "Jane Doe", Role: "Recruiter", Company: "Acme Corp",
					EmailSource: schema.EmailNone,
				}},
			},
			wantErr: true,
		},
		{
			name: "greeting with people",
			resp: schema.SearchResponse{
				Status:  schema.StatusGreeting,
				Message: "hello",
				People:  []schema.Person{validPerson()},
			},
			wantErr: true,
		},
		{
			name: "message leaks a person name",
			resp: schema.SearchResponse{
				Status:  schema.StatusPeopleFound,
				Message: "I found Jane Doe at Acme Corp.",
				People:  []schema.Person{validPerson()},
			},
			wantErr: true,
		},
		{
			name: "empty message",
			resp: schema.SearchResponse{
				Status: schema.StatusCantFind,
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			resp: schema.SearchResponse{
				Status:  "maybe_found",
				Message: "who knows",
			},
			wantErr: true,
		},
		{
			name: "invalid nested person",
			resp: schema.SearchResponse{
				Status:  schema.StatusPeopleFound,
				Message: "found one",
				People: []schema.Person{{
					Name: "Name not shown", Role: "Recruiter", Company: "Acme Corp",
					Source: schema.SourceLinkedIn,
				}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.resp.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuerySetValidate(t *testing.T) {
	t.Parallel()

	assert.Error(t, schema.QuerySet{}.Validate())
	assert.Error(t, schema.QuerySet{Queries: []string{" "}}.Validate())
	assert.NoError(t, schema.QuerySet{Queries: []string{"recruiters at Acme Corp"}}.Validate())
}

func TestNewTurn(t *testing.T) {
	t.Parallel()

	turn := schema.NewTurn(schema.RoleUser, "find recruiters at Acme Corp")
	require.NoError(t, turn.Validate())
	assert.NotEmpty(t, turn.ID)
	assert.False(t, turn.CreatedAt.IsZero())

	bad := schema.ConversationTurn{Role: "system", Content: "x"}
	assert.Error(t, bad.Validate())
}

package company

import "strings"

const (
	TypeLead = "Lead"

	// DefaultOpportunityProbability is the win probability given to the
	// opportunity opened for a newly imported lead.
	DefaultOpportunityProbability = 10
)

type Company struct {
	ID                string
	Name              string
	CNPJ              string
	Phone             string
	Email             string
	City              string
	State             string
	Sector            string
	Website           string
	Type              string
	AnnualRevenue     *float64
	NumberOfEmployees *int
	Size              string
	OwnerID           string
	ContactName       string
	ContactPhone      string
	ContactRole       string
}

func (c Company) IsLead() bool {
	return c.Type == "" || c.Type == TypeLead
}

type PipelineStage struct {
	ID       string
	Name     string
	Position int
}

type Opportunity struct {
	ID          string
	CompanyID   string
	StageID     string
	OwnerID     string
	Title       string
	Value       float64
	Probability int
}

// NewLeadOpportunity builds the opportunity opened on the first pipeline
// stage when a lead company is created.
func NewLeadOpportunity(c Company, stage PipelineStage) Opportunity {
	value := 0.0
	if c.AnnualRevenue != nil {
		value = *c.AnnualRevenue
	}
	return Opportunity{
		CompanyID:   c.ID,
		StageID:     stage.ID,
		OwnerID:     c.OwnerID,
		Title:       strings.TrimSpace(c.Name),
		Value:       value,
		Probability: DefaultOpportunityProbability,
	}
}

type AuditEntry struct {
	UserID     string
	Action     string
	EntityType string
	Details    map[string]any
}

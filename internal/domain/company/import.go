package company

import "time"

// RawRow is one parsed spreadsheet row keyed by its raw header text.
type RawRow map[string]string

type RecordStatus string

const (
	RecordValid RecordStatus = "valid"
	RecordError RecordStatus = "error"
)

// ImportRecord is a spreadsheet row after column normalization and
// validation. Line is the row number the user sees in the source file.
type ImportRecord struct {
	Line    int               `json:"line"`
	Fields  map[string]string `json:"fields"`
	Status  RecordStatus      `json:"status"`
	Errors  []string          `json:"errors"`
	Manager *RosterEntry      `json:"manager,omitempty"`
}

func (r ImportRecord) Valid() bool {
	return r.Status == RecordValid
}

type DetailStatus string

const (
	DetailSuccess DetailStatus = "success"
	DetailError   DetailStatus = "error"
)

type ImportDetail struct {
	Row     int          `json:"row"`
	Status  DetailStatus `json:"status"`
	Message string       `json:"message"`
}

// ImportResult summarizes one bulk insert run, one detail per submitted row.
type ImportResult struct {
	Total        int            `json:"total"`
	SuccessCount int            `json:"success"`
	ErrorCount   int            `json:"errors"`
	WarningCount int            `json:"warnings"`
	Details      []ImportDetail `json:"details"`
}

// CompanyInsert is the wire shape of one row sent to the bulk insert endpoint.
// Its validate tags apply to single company creation only; bulk rows are
// checked one by one and reported in the result.
type CompanyInsert struct {
	Name              string   `json:"name" validate:"required"`
	CNPJ              string   `json:"cnpj,omitempty" validate:"omitempty,cnpj"`
	Phone             string   `json:"phone,omitempty"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	Website           string   `json:"website,omitempty"`
	Type              string   `json:"type,omitempty"`
	AnnualRevenue     *float64 `json:"annual_revenue"`
	NumberOfEmployees *int     `json:"number_of_employees"`
	Size              string   `json:"size,omitempty"`
	OwnerID           string   `json:"owner_id,omitempty" validate:"omitempty,uuid"`
	ContactName       string   `json:"contact_name,omitempty"`
	ContactPhone      string   `json:"contact_phone,omitempty"`
	ContactRole       string   `json:"contact_cargo,omitempty"`
}

func (c CompanyInsert) ToCompany() Company {
	return Company{
		Name:              c.Name,
		CNPJ:              c.CNPJ,
		Phone:             c.Phone,
		Email:             c.Email,
		City:              c.City,
		State:             c.State,
		Sector:            c.Sector,
		Website:           c.Website,
		Type:              c.Type,
		AnnualRevenue:     c.AnnualRevenue,
		NumberOfEmployees: c.NumberOfEmployees,
		Size:              c.Size,
		OwnerID:           c.OwnerID,
		ContactName:       c.ContactName,
		ContactPhone:      c.ContactPhone,
		ContactRole:       c.ContactRole,
	}
}

type BulkInsertRequest struct {
	Companies []CompanyInsert `json:"companies" validate:"required,min=1"`
	OwnerID   string          `json:"owner_id,omitempty" validate:"omitempty,uuid"`
}

// PreviewSession holds a validated upload between preview and submission.
type PreviewSession struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Filename  string         `json:"filename"`
	Records   []ImportRecord `json:"records"`
	Result    *ImportResult  `json:"result,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s PreviewSession) Counts() (valid, invalid int) {
	for _, r := range s.Records {
		if r.Valid() {
			valid++
		} else {
			invalid++
		}
	}
	return valid, invalid
}

type TemplateColumn struct {
	Header   string `json:"header"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
	Example  string `json:"example"`
}

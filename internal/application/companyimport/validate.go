package companyimport

import (
	"fmt"
	"regexp"
	"strings"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const (
	MsgNameRequired = "Company name is required"
	MsgInvalidEmail = "Invalid email"
	MsgInvalidPhone = "Invalid phone format (area code + number)"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-?\d{4}$`)
)

// Validator checks normalized rows against the import rules. It holds the
// roster used for manager resolution.
type Validator struct {
	roster []domain.RosterEntry
}

func NewValidator(roster []domain.RosterEntry) *Validator {
	return &Validator{roster: roster}
}

// Validate runs every rule on the row and collects all failures.
func (v *Validator) Validate(row NormalizedRow) domain.ImportRecord {
	fields := row.Fields
	errs := make([]string, 0)

	if strings.TrimSpace(fields[FieldName]) == "" {
		errs = append(errs, MsgNameRequired)
	}

	// CNPJ is taken as-is on import; only manual company creation runs the checksum.

	if email := fields[FieldEmail]; email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, MsgInvalidEmail)
	}

	areaCode, number := fields[FieldContactAreaCode], fields[FieldContactNumber]
	if areaCode != "" && number != "" && !phonePattern.MatchString(ComposePhone(areaCode, number)) {
		errs = append(errs, MsgInvalidPhone)
	}

	var manager *domain.RosterEntry
	if name := fields[FieldManagerName]; name != "" {
		resolved, msg := ResolveManager(v.roster, name)
		if msg != "" {
			errs = append(errs, msg)
		}
		manager = resolved
	}

	status := domain.RecordValid
	if len(errs) > 0 {
		status = domain.RecordError
	}

	return domain.ImportRecord{
		Line:    row.Line,
		Fields:  fields,
		Status:  status,
		Errors:  errs,
		Manager: manager,
	}
}

func (v *Validator) ValidateAll(rows []NormalizedRow) []domain.ImportRecord {
	records := make([]domain.ImportRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, v.Validate(row))
	}
	return records
}

// ResolveManager matches the first token of name, case-insensitively, as a
// substring of each roster name. It returns the entry only when exactly one
// matches; otherwise it returns the error message for the row.
func ResolveManager(roster []domain.RosterEntry, name string) (*domain.RosterEntry, string) {
	name = strings.TrimSpace(name)
	tokens := strings.Fields(strings.ToLower(name))
	if len(tokens) == 0 {
		return nil, ""
	}
	first := tokens[0]

	var matches []domain.RosterEntry
	for _, entry := range roster {
		if strings.Contains(strings.ToLower(entry.Name), first) {
			matches = append(matches, entry)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Sprintf("Manager '%s' not found in system", name)
	case 1:
		match := matches[0]
		return &match, ""
	default:
		return nil, fmt.Sprintf("Multiple managers found for '%s'", name)
	}
}

// ComposePhone joins a DD area code and a subscriber number as "(DD) NUMBER".
func ComposePhone(areaCode, number string) string {
	areaCode = strings.Trim(strings.TrimSpace(areaCode), "()")
	return fmt.Sprintf("(%s) %s", strings.TrimSpace(areaCode), strings.TrimSpace(number))
}

// ContactPhone returns the contact phone of a record: the composed DD and
// number when both are present, otherwise whichever single value exists.
func ContactPhone(fields map[string]string) string {
	areaCode, number := fields[FieldContactAreaCode], fields[FieldContactNumber]
	switch {
	case areaCode != "" && number != "":
		return ComposePhone(areaCode, number)
	case fields[FieldContactPhone] != "":
		return fields[FieldContactPhone]
	default:
		return number
	}
}

// Prepare normalizes and validates parsed rows. A file whose rows are all
// noise yields ErrNoRows.
func Prepare(rows []domain.RawRow, roster []domain.RosterEntry) ([]domain.ImportRecord, error) {
	normalized := Normalize(rows)
	if len(normalized) == 0 {
		return nil, domain.ErrNoRows
	}
	return NewValidator(roster).ValidateAll(normalized), nil
}

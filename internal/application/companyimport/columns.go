package companyimport

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

// Canonical field names of an import row.
const (
	FieldName              = "name"
	FieldCNPJ              = "cnpj"
	FieldCity              = "city"
	FieldState             = "state"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldSector            = "sector"
	FieldWebsite           = "website"
	FieldType              = "type"
	FieldAnnualRevenue     = "annualRevenue"
	FieldNumberOfEmployees = "numberOfEmployees"
	FieldSize              = "size"
	FieldContactName       = "contactName"
	FieldContactAreaCode   = "contactAreaCode"
	FieldContactNumber     = "contactNumber"
	FieldContactPhone      = "contactPhone"
	FieldContactRole       = "contactRole"
	FieldManagerName       = "managerName"
)

var canonicalFields = []string{
	FieldName, FieldCNPJ, FieldCity, FieldState, FieldEmail, FieldPhone,
	FieldSector, FieldWebsite, FieldType, FieldAnnualRevenue,
	FieldNumberOfEmployees, FieldSize, FieldContactName, FieldContactAreaCode,
	FieldContactNumber, FieldContactPhone, FieldContactRole, FieldManagerName,
}

// columnSynonyms maps a header, written the way users type it, to its
// canonical field. Lookups go through headerIndex, which is keyed by the
// accent-folded form.
var columnSynonyms = map[string]string{
	"nome completo da empresa": FieldName,
	"nome da empresa":          FieldName,
	"empresa":                  FieldName,
	"razão social":             FieldName,
	"nome fantasia":            FieldName,
	"company":                  FieldName,
	"company name":             FieldName,

	"cnpj":            FieldCNPJ,
	"cnpj da empresa": FieldCNPJ,

	"cidade":    FieldCity,
	"município": FieldCity,

	"estado": FieldState,
	"uf":     FieldState,

	"e-mail":           FieldEmail,
	"email da empresa": FieldEmail,

	"telefone":            FieldPhone,
	"telefone da empresa": FieldPhone,
	"telefone comercial":  FieldPhone,

	"setor":    FieldSector,
	"segmento": FieldSector,
	"ramo":     FieldSector,

	"site": FieldWebsite,

	"tipo": FieldType,

	"faturamento":       FieldAnnualRevenue,
	"faturamento anual": FieldAnnualRevenue,
	"receita anual":     FieldAnnualRevenue,
	"annual revenue":    FieldAnnualRevenue,

	"número de funcionários": FieldNumberOfEmployees,
	"funcionários":           FieldNumberOfEmployees,
	"employees":              FieldNumberOfEmployees,

	"porte":   FieldSize,
	"tamanho": FieldSize,

	"nome completo do profissional": FieldContactName,
	"nome do contato":               FieldContactName,
	"contato":                       FieldContactName,
	"contact name":                  FieldContactName,

	"dd":  FieldContactAreaCode,
	"ddd": FieldContactAreaCode,

	"celular":           FieldContactNumber,
	"número do celular": FieldContactNumber,

	"telefone do contato": FieldContactPhone,
	"whatsapp":            FieldContactPhone,

	"cargo":        FieldContactRole,
	"função":       FieldContactRole,
	"contact role": FieldContactRole,

	"gerente":             FieldManagerName,
	"gerente responsável": FieldManagerName,
	"responsável":         FieldManagerName,
	"vendedor":            FieldManagerName,
	"manager":             FieldManagerName,
}

var headerIndex = make(map[string]string, len(columnSynonyms)+len(canonicalFields))

func init() {
	for header, field := range columnSynonyms {
		headerIndex[NormalizeHeader(header)] = field
	}
	for _, field := range canonicalFields {
		headerIndex[NormalizeHeader(field)] = field
	}
}

// NormalizedRow is a row whose keys are canonical field names. Only
// non-empty values are kept.
type NormalizedRow struct {
	Line   int
	Fields map[string]string
}

// NormalizeHeader reduces a raw header to the form used for synonym lookup.
func NormalizeHeader(header string) string {
	h := strings.ReplaceAll(header, "\ufeff", "")
	h = strings.TrimSpace(h)
	h = strings.TrimSuffix(h, "*")
	h = strings.Join(strings.Fields(h), " ")
	return foldAccents(strings.ToLower(h))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CanonicalField returns the canonical field for a raw header.
func CanonicalField(header string) (string, bool) {
	field, ok := headerIndex[NormalizeHeader(header)]
	return field, ok
}

// NormalizeRow rewrites raw header keys to canonical field names, dropping
// unrecognized headers and blank values. When several headers map to the same
// field the first non-empty value in sorted header order wins.
func NormalizeRow(row domain.RawRow) map[string]string {
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	out := make(map[string]string, len(row))
	for _, header := range headers {
		field, ok := CanonicalField(header)
		if !ok {
			continue
		}
		value := strings.TrimSpace(row[header])
		if value == "" {
			continue
		}
		if _, taken := out[field]; taken {
			continue
		}
		out[field] = value
	}
	return out
}

// Normalize applies NormalizeRow to every row and removes rows left with no
// recognized value. Line keeps the source position: index + 2, accounting for
// the 1-indexed header row.
func Normalize(rows []domain.RawRow) []NormalizedRow {
	out := make([]NormalizedRow, 0, len(rows))
	for i, row := range rows {
		fields := NormalizeRow(row)
		if len(fields) == 0 {
			continue
		}
		out = append(out, NormalizedRow{Line: i + 2, Fields: fields})
	}
	return out
}

// TemplateColumns lists the display headers offered in the import template.
func TemplateColumns() []domain.TemplateColumn {
	return []domain.TemplateColumn{
		{Header: "Nome Completo da Empresa", Field: FieldName, Required: true, Example: "Padaria Pão Quente Ltda"},
		{Header: "CNPJ", Field: FieldCNPJ, Example: "11.222.333/0001-81"},
		{Header: "Cidade", Field: FieldCity, Example: "São Paulo"},
		{Header: "Estado", Field: FieldState, Example: "SP"},
		{Header: "E-mail", Field: FieldEmail, Example: "contato@paoquente.com.br"},
		{Header: "Telefone", Field: FieldPhone, Example: "(11) 3333-4444"},
		{Header: "Setor", Field: FieldSector, Example: "Alimentação"},
		{Header: "Site", Field: FieldWebsite, Example: "https://paoquente.com.br"},
		{Header: "Tipo", Field: FieldType, Example: domain.TypeLead},
		{Header: "Faturamento Anual", Field: FieldAnnualRevenue, Example: "1.200.000,00"},
		{Header: "Número de Funcionários", Field: FieldNumberOfEmployees, Example: "25"},
		{Header: "Porte", Field: FieldSize, Example: "Pequena"},
		{Header: "Nome Completo do Profissional", Field: FieldContactName, Example: "João da Silva"},
		{Header: "DD", Field: FieldContactAreaCode, Example: "11"},
		{Header: "Celular", Field: FieldContactNumber, Example: "98765-4321"},
		{Header: "Cargo", Field: FieldContactRole, Example: "Sócio"},
		{Header: "Gerente", Field: FieldManagerName, Example: "Maria Souza"},
	}
}

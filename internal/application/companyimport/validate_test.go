package companyimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
)

var testRoster = []domain.RosterEntry{
	{ID: "u-maria-1", Name: "Maria Souza", Role: domain.RoleSalesperson},
	{ID: "u-maria-2", Name: "Maria Santos", Role: domain.RoleSalesperson},
	{ID: "u-joao", Name: "João Pereira", Role: domain.RoleSalesperson},
	{ID: "u-carla", Name: "Carla Dias", Role: domain.RoleAdmin},
}

func TestValidateValidRow(t *testing.T) {
	t.Parallel()

	rec := app.NewValidator(testRoster).Validate(app.NormalizedRow{Line: 2, Fields: map[string]string{
		app.FieldName:            "Acme",
		app.FieldCNPJ:            "not-a-cnpj",
		app.FieldEmail:           "contato@acme.com.br",
		app.FieldContactAreaCode: "11",
		app.FieldContactNumber:   "98765-4321",
		app.FieldManagerName:     "joão",
	}})

	assert.Equal(t, domain.RecordValid, rec.Status)
	assert.Empty(t, rec.Errors)
	require.NotNil(t, rec.Manager)
	assert.Equal(t, "u-joao", rec.Manager.ID)
	assert.Equal(t, 2, rec.Line)
}

func TestValidateCollectsEveryErrorInRuleOrder(t *testing.T) {
	t.Parallel()

	rec := app.NewValidator(testRoster).Validate(app.NormalizedRow{Line: 7, Fields: map[string]string{
		app.FieldEmail:           "broken@",
		app.FieldContactAreaCode: "1",
		app.FieldContactNumber:   "12",
		app.FieldManagerName:     "Pedro Alves",
	}})

	assert.Equal(t, domain.RecordError, rec.Status)
	assert.Equal(t, []string{
		app.MsgNameRequired,
		app.MsgInvalidEmail,
		app.MsgInvalidPhone,
		"Manager 'Pedro Alves' not found in system",
	}, rec.Errors)
	assert.Nil(t, rec.Manager)
}

func TestValidateErrorCountMatchesViolatedRules(t *testing.T) {
	t.Parallel()

	v := app.NewValidator(testRoster)
	base := map[string]string{app.FieldName: "Acme"}

	violations := []struct {
		field, value string
		remove       bool
	}{
		{field: app.FieldName, remove: true},
		{field: app.FieldEmail, value: "nope"},
		{field: app.FieldContactNumber, value: "12"},
		{field: app.FieldManagerName, value: "Ninguém"},
	}

	// every subset of the four independent rules
	for mask := 0; mask < 1<<len(violations); mask++ {
		fields := map[string]string{app.FieldContactAreaCode: "11"}
		for k, v := range base {
			fields[k] = v
		}
		want := 0
		for i, viol := range violations {
			if mask&(1<<i) == 0 {
				continue
			}
			want++
			if viol.remove {
				delete(fields, viol.field)
			} else {
				fields[viol.field] = viol.value
			}
		}

		rec := v.Validate(app.NormalizedRow{Line: 2, Fields: fields})
		assert.Len(t, rec.Errors, want, "mask %b", mask)
		assert.Equal(t, want > 0, rec.Status == domain.RecordError, "mask %b", mask)
	}
}

func TestValidateAcceptsPhoneVariants(t *testing.T) {
	t.Parallel()

	v := app.NewValidator(nil)
	for _, tc := range []struct {
		dd, number string
		ok         bool
	}{
		{"11", "98765-4321", true},
		{"11", "987654321", true},
		{"21", "3333-4444", true},
		{"(11)", "3333-4444", true},
		{"011", "3333-4444", false},
		{"11", "333-4444", false},
		{"11", "98765 4321", false},
	} {
		rec := v.Validate(app.NormalizedRow{Fields: map[string]string{
			app.FieldName:            "Acme",
			app.FieldContactAreaCode: tc.dd,
			app.FieldContactNumber:   tc.number,
		}})
		assert.Equal(t, tc.ok, rec.Valid(), "%s %s", tc.dd, tc.number)
	}
}

func TestValidatePhoneNeedsBothParts(t *testing.T) {
	t.Parallel()

	rec := app.NewValidator(nil).Validate(app.NormalizedRow{Fields: map[string]string{
		app.FieldName:          "Acme",
		app.FieldContactNumber: "12",
	}})
	assert.True(t, rec.Valid())
}

func TestResolveManager(t *testing.T) {
	t.Parallel()

	entry, msg := app.ResolveManager(testRoster, "CARLA")
	require.NotNil(t, entry)
	assert.Empty(t, msg)
	assert.Equal(t, "u-carla", entry.ID)

	entry, msg = app.ResolveManager(testRoster, "Maria Santos")
	assert.Nil(t, entry)
	assert.Equal(t, "Multiple managers found for 'Maria Santos'", msg)

	entry, msg = app.ResolveManager(testRoster, "Roberto")
	assert.Nil(t, entry)
	assert.Equal(t, "Manager 'Roberto' not found in system", msg)

	entry, msg = app.ResolveManager(nil, "Carla")
	assert.Nil(t, entry)
	assert.NotEmpty(t, msg)
}

func TestResolveManagerIsDeterministicAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"joão", "JOÃO", "João Qualquer", "  joÃo  "} {
		for i := 0; i < 5; i++ {
			entry, msg := app.ResolveManager(testRoster, name)
			require.NotNil(t, entry, name)
			assert.Empty(t, msg)
			assert.Equal(t, "u-joao", entry.ID)
		}
	}
}

func TestContactPhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(11) 98765-4321", app.ContactPhone(map[string]string{
		app.FieldContactAreaCode: "11", app.FieldContactNumber: "98765-4321", app.FieldContactPhone: "ignored",
	}))
	assert.Equal(t, "(21) 3333-4444", app.ContactPhone(map[string]string{app.FieldContactPhone: "(21) 3333-4444"}))
	assert.Equal(t, "3333-4444", app.ContactPhone(map[string]string{app.FieldContactNumber: "3333-4444"}))
	assert.Empty(t, app.ContactPhone(map[string]string{app.FieldContactAreaCode: "11"}))
}

func TestPrepareRejectsNoiseOnlyFiles(t *testing.T) {
	t.Parallel()

	_, err := app.Prepare([]domain.RawRow{{"x": "1"}, {"Empresa": ""}}, testRoster)
	require.ErrorIs(t, err, domain.ErrNoRows)
}

func TestPrepareAmbiguousManagerIsExcludedFromBatch(t *testing.T) {
	t.Parallel()

	records, err := app.Prepare([]domain.RawRow{
		{"Nome Completo da Empresa": "Acme", "Gerente": "Maria Santos"},
		{"Nome Completo da Empresa": "Globex", "Gerente": "Carla"},
	}, testRoster)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.RecordError, records[0].Status)
	assert.Equal(t, []string{"Multiple managers found for 'Maria Santos'"}, records[0].Errors)

	batch := app.BuildBatch(records, "")
	require.Len(t, batch, 1)
	assert.Equal(t, "Globex", batch[0].Name)
	assert.Equal(t, "u-carla", batch[0].OwnerID)
}

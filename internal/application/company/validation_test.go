package company

import (
	"testing"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

func TestNewValidatorRegistersCNPJ(t *testing.T) {
	t.Parallel()

	v := newValidator()

	if err := v.Struct(domain.CompanyInsert{Name: "Acme", CNPJ: "11.222.333/0001-81"}); err != nil {
		t.Fatalf("expected valid cnpj to pass, got %v", err)
	}
	if err := v.Struct(domain.CompanyInsert{Name: "Acme", CNPJ: "11.222.333/0001-82"}); err == nil {
		t.Fatal("expected bad check digits to fail")
	}
	if err := v.Var("123", "cnpj"); err == nil {
		t.Fatal("expected cnpj tag to reject a short value")
	}
}

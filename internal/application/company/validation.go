package company

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return domain.ValidCNPJ(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register cnpj validation: %v", err))
	}
	return v
}

// authorizeOwner checks that the caller may assign records to ownerID.
// Salespeople can only import for themselves.
func authorizeOwner(userID string, role domain.Role, ownerID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return ErrInvalidUserID
	}
	if !domain.CanAssign(userID, role, ownerID) {
		return ErrForbiddenOwner
	}
	return nil
}

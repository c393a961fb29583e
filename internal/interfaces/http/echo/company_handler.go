package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	companyapp "github.com/leadflow/crm-import/internal/application/company"
	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type CompanyHandler struct {
	bulkImport companyapp.BulkImportCompanies
	create     companyapp.CreateCompany
	observer   ImportObserver
}

func NewCompanyHandler(bulkImport companyapp.BulkImportCompanies, create companyapp.CreateCompany, observer ImportObserver) *CompanyHandler {
	return &CompanyHandler{bulkImport: bulkImport, create: create, observer: observer}
}

func (h *CompanyHandler) BulkImport(c echo.Context) error {
	var req domain.BulkInsertRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	who := callerFrom(c)
	out, err := h.bulkImport.Execute(c.Request().Context(), companyapp.BulkImportCompaniesInput{
		UserID:  who.ID,
		Role:    who.Role,
		Request: req,
	})
	if err != nil {
		return respondCompanyError(c, err, "failed to import companies")
	}

	h.observer.ObserveImport(out)
	return c.JSON(http.StatusOK, out)
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var req domain.CompanyInsert
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	who := callerFrom(c)
	out, err := h.create.Execute(c.Request().Context(), companyapp.CreateCompanyInput{
		UserID:  who.ID,
		Role:    who.Role,
		Company: req,
	})
	if err != nil {
		return respondCompanyError(c, err, "failed to create company")
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func respondCompanyError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, companyapp.ErrInvalidRequest):
		return respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, companyapp.ErrInvalidUserID):
		return respondError(c, http.StatusUnauthorized, "unauthenticated", "X-User-Id must be a valid UUID")
	case errors.Is(err, companyapp.ErrForbiddenOwner):
		return respondError(c, http.StatusForbidden, "forbidden_owner", err.Error())
	case errors.Is(err, companyapp.ErrDuplicateCompany):
		return respondError(c, http.StatusConflict, "duplicate_cnpj", "a company with this CNPJ already exists")
	default:
		return respondError(c, http.StatusInternalServerError, "internal_error", fallback)
	}
}

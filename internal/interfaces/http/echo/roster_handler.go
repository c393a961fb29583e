package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	companyapp "github.com/leadflow/crm-import/internal/application/company"
)

type RosterHandler struct {
	useCase companyapp.ListRoster
}

func NewRosterHandler(useCase companyapp.ListRoster) *RosterHandler {
	return &RosterHandler{useCase: useCase}
}

func (h *RosterHandler) List(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to list roster")
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

package echo

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/spreadsheet"
)

const templateBaseName = "modelo_importacao_empresas"

type PreviewSessions interface {
	Page(ctx context.Context, in importapp.PreviewPageInput) (importapp.PreviewPageOutput, error)
	Submit(ctx context.Context, in importapp.SubmitPreviewInput) (importapp.ResultPageOutput, error)
	Result(ctx context.Context, in importapp.ResultPageInput) (importapp.ResultPageOutput, error)
	Discard(ctx context.Context, sessionID, userID string) error
}

// ImportObserver receives import outcomes for metrics.
type ImportObserver interface {
	ObserveImport(result domain.ImportResult)
	ObservePreview(valid, invalid int)
}

type ImportHandler struct {
	preview  importapp.PreviewImport
	sessions PreviewSessions
	observer ImportObserver
}

type submitPreviewRequest struct {
	DefaultOwnerID string `json:"default_owner_id"`
}

func NewImportHandler(preview importapp.PreviewImport, sessions PreviewSessions, observer ImportObserver) *ImportHandler {
	return &ImportHandler{preview: preview, sessions: sessions, observer: observer}
}

func (h *ImportHandler) Preview(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "missing_file", "multipart field 'file' is required")
	}

	body, err := fh.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "unreadable_file", "uploaded file could not be read")
	}
	defer body.Close()

	out, err := h.preview.Execute(c.Request().Context(), importapp.PreviewImportInput{
		UserID:   callerFrom(c).ID,
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     body,
	})
	if err != nil {
		return respondFileError(c, err)
	}

	h.observer.ObservePreview(out.ValidCount, out.ErrorCount)
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *ImportHandler) PreviewPage(c echo.Context) error {
	status := domain.RecordStatus(c.QueryParam("status"))
	if status != "" && status != domain.RecordValid && status != domain.RecordError {
		return respondError(c, http.StatusBadRequest, "invalid_status", "status must be valid or error")
	}

	out, err := h.sessions.Page(c.Request().Context(), importapp.PreviewPageInput{
		SessionID: c.Param("id"),
		UserID:    callerFrom(c).ID,
		Page:      pageParam(c),
		Status:    status,
	})
	if err != nil {
		return respondSessionError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Submit(c echo.Context) error {
	var req submitPreviewRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return respondError(c, http.StatusBadRequest, "bad_request", "invalid request body")
		}
	}

	who := callerFrom(c)
	out, err := h.sessions.Submit(c.Request().Context(), importapp.SubmitPreviewInput{
		SessionID:      c.Param("id"),
		UserID:         who.ID,
		Role:           who.Role,
		DefaultOwnerID: req.DefaultOwnerID,
	})
	if err != nil {
		return respondSessionError(c, err)
	}

	h.observer.ObserveImport(domain.ImportResult{
		Total:        out.Total,
		SuccessCount: out.Success,
		ErrorCount:   out.Errors,
		WarningCount: out.Warnings,
	})
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Result(c echo.Context) error {
	out, err := h.sessions.Result(c.Request().Context(), importapp.ResultPageInput{
		SessionID: c.Param("id"),
		UserID:    callerFrom(c).ID,
		Page:      pageParam(c),
	})
	if err != nil {
		return respondSessionError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Discard(c echo.Context) error {
	if err := h.sessions.Discard(c.Request().Context(), c.Param("id"), callerFrom(c).ID); err != nil {
		return respondSessionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ImportHandler) Template(c echo.Context) error {
	columns := importapp.TemplateColumns()

	switch format := c.QueryParam("format"); format {
	case "json":
		return c.JSON(http.StatusOK, apiResponse{Data: columns})
	case "", "csv":
		var buf bytes.Buffer
		if err := spreadsheet.WriteCSVTemplate(&buf, columns); err != nil {
			return respondError(c, http.StatusInternalServerError, "internal_error", "failed to build template")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+templateBaseName+`.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := spreadsheet.WriteXLSXTemplate(&buf, columns); err != nil {
			return respondError(c, http.StatusInternalServerError, "internal_error", "failed to build template")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+templateBaseName+`.xlsx"`)
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		return respondError(c, http.StatusBadRequest, "invalid_format", "format must be csv, xlsx or json")
	}
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return page
}

func respondFileError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyFile):
		return respondError(c, http.StatusBadRequest, "empty_file", "the file is empty")
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return respondError(c, http.StatusUnsupportedMediaType, "unsupported_file_type", err.Error())
	case errors.Is(err, domain.ErrFileTooLarge):
		return respondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, domain.ErrCorruptWorkbook):
		return respondError(c, http.StatusUnprocessableEntity, "corrupt_workbook", err.Error())
	case errors.Is(err, domain.ErrNoSheets):
		return respondError(c, http.StatusUnprocessableEntity, "no_sheets", "the workbook has no sheets")
	case errors.Is(err, domain.ErrNoRows):
		return respondError(c, http.StatusUnprocessableEntity, "no_rows", "the file has no data rows")
	default:
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to preview import")
	}
}

func respondSessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPreviewNotFound):
		return respondError(c, http.StatusNotFound, "not_found", "import preview not found")
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return respondError(c, http.StatusConflict, "already_submitted", "this import was already submitted")
	case errors.Is(err, importapp.ErrInvalidOwner):
		return respondError(c, http.StatusBadRequest, "invalid_owner", err.Error())
	case errors.Is(err, importapp.ErrForbiddenOwner):
		return respondError(c, http.StatusForbidden, "forbidden_owner", err.Error())
	case errors.Is(err, importapp.ErrNothingToSubmit):
		return respondError(c, http.StatusUnprocessableEntity, "nothing_to_submit", "the preview has no valid records")
	default:
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to process import preview")
	}
}

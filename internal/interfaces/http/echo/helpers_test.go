package echo_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	domain "github.com/leadflow/crm-import/internal/domain/company"
	httpecho "github.com/leadflow/crm-import/internal/interfaces/http/echo"
)

const (
	adminID = "a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e"
	salesID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

type noopObserver struct{}

func (noopObserver) ObserveImport(domain.ImportResult) {}
func (noopObserver) ObservePreview(int, int)           {}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, e *echo.Echo, req *http.Request, userID string, role domain.Role) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	if userID != "" {
		req.Header.Set(httpecho.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(httpecho.HeaderUserRole, string(role))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("unexpected json: %v", err)
		}
	}
	return rec, env
}

func jsonRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

package companyimport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

// BulkInserter persists a batch of companies in one call.
type BulkInserter interface {
	BulkInsert(ctx context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error)
}

type BulkInserterFunc func(ctx context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error)

func (f BulkInserterFunc) BulkInsert(ctx context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error) {
	return f(ctx, req)
}

// ErrServerFailure marks a response the server answered with a 5xx status.
var ErrServerFailure = errors.New("server failure")

type FailureClass string

const (
	FailureConnectivity FailureClass = "connectivity"
	FailureTimeout      FailureClass = "timeout"
	FailureUnknown      FailureClass = "unknown"
)

type SubmitInput struct {
	Records        []domain.ImportRecord
	DefaultOwnerID string
}

type Submitter struct {
	inserter BulkInserter
	logger   zerolog.Logger
}

func NewSubmitter(inserter BulkInserter, logger zerolog.Logger) *Submitter {
	return &Submitter{inserter: inserter, logger: logger}
}

// Submit sends every valid record in a single bulk insert call. Transport
// failures never escape: they become a one-entry error result so the caller
// always reaches a terminal state.
func (s *Submitter) Submit(ctx context.Context, in SubmitInput) (domain.ImportResult, error) {
	batch := BuildBatch(in.Records, in.DefaultOwnerID)
	if len(batch) == 0 {
		return domain.ImportResult{}, ErrNothingToSubmit
	}

	result, err := s.inserter.BulkInsert(ctx, domain.BulkInsertRequest{
		Companies: batch,
		OwnerID:   in.DefaultOwnerID,
	})
	if err != nil {
		class := ClassifyFailure(err)
		s.logger.Error().Err(err).Str("class", string(class)).Int("rows", len(batch)).Msg("bulk import submission failed")
		return FailureResult(len(batch), class, err), nil
	}

	s.logger.Info().
		Int("total", result.Total).
		Int("success", result.SuccessCount).
		Int("errors", result.ErrorCount).
		Int("warnings", result.WarningCount).
		Msg("bulk import submitted")

	return result, nil
}

// BuildBatch maps the valid records to the bulk insert wire shape.
func BuildBatch(records []domain.ImportRecord, defaultOwnerID string) []domain.CompanyInsert {
	batch := make([]domain.CompanyInsert, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		batch = append(batch, toCompanyInsert(r, defaultOwnerID))
	}
	return batch
}

func toCompanyInsert(r domain.ImportRecord, defaultOwnerID string) domain.CompanyInsert {
	f := r.Fields

	companyType := f[FieldType]
	if companyType == "" {
		companyType = domain.TypeLead
	}

	ownerID := defaultOwnerID
	if r.Manager != nil {
		ownerID = r.Manager.ID
	}

	return domain.CompanyInsert{
		Name:              f[FieldName],
		CNPJ:              f[FieldCNPJ],
		Phone:             f[FieldPhone],
		Email:             f[FieldEmail],
		City:              f[FieldCity],
		State:             f[FieldState],
		Sector:            f[FieldSector],
		Website:           f[FieldWebsite],
		Type:              companyType,
		AnnualRevenue:     ParseRevenue(f[FieldAnnualRevenue]),
		NumberOfEmployees: ParseEmployees(f[FieldNumberOfEmployees]),
		Size:              f[FieldSize],
		OwnerID:           ownerID,
		ContactName:       f[FieldContactName],
		ContactPhone:      ContactPhone(f),
		ContactRole:       f[FieldContactRole],
	}
}

// ParseRevenue reads a money amount written either as a plain number
// ("1234567.89") or in Brazilian notation ("R$ 1.234.567,89"). Without a
// comma, dots are thousands separators when there are several of them or
// when the only one is followed by exactly three digits ("R$ 1.500").
// Anything unparseable yields nil.
func ParseRevenue(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.ToUpper(s), "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return nil
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case thousandsDots(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

func thousandsDots(s string) bool {
	switch strings.Count(s, ".") {
	case 0:
		return false
	case 1:
		return len(s)-strings.IndexByte(s, '.')-1 == 3
	default:
		return true
	}
}

// ParseEmployees reads a head count; decimals are truncated.
func ParseEmployees(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

// ClassifyFailure buckets a submission error for the user-facing message.
func ClassifyFailure(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return FailureConnectivity
	}

	return FailureUnknown
}

// FailureResult is the terminal result reported when the batch never got a
// server answer.
func FailureResult(rows int, class FailureClass, err error) domain.ImportResult {
	var message string
	switch class {
	case FailureConnectivity:
		message = "Connection error: could not reach the server. Check your connection and try again."
	case FailureTimeout:
		message = "Timeout: the server took too long to respond. Try again with fewer rows."
	default:
		message = fmt.Sprintf("Import failed: %v", err)
	}

	return domain.ImportResult{
		Total:        rows,
		SuccessCount: 0,
		ErrorCount:   1,
		Details: []domain.ImportDetail{{
			Row:     0,
			Status:  domain.DetailError,
			Message: message,
		}},
	}
}

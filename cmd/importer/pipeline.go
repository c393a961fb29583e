package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/file"
	"github.com/leadflow/crm-import/internal/infrastructure/spreadsheet"
)

// pipeline runs the client side of an import: the file is checked, parsed,
// normalized and validated locally; only the roster comes from the API.
type pipeline struct {
	source *file.LocalSource
	parser importapp.SheetParser
	roster domain.RosterRepository
	logger zerolog.Logger
}

func newPipeline(roster domain.RosterRepository, logger zerolog.Logger) *pipeline {
	return &pipeline{
		source: file.NewLocalSource("."),
		parser: spreadsheet.NewReader(),
		roster: roster,
		logger: logger,
	}
}

func (p *pipeline) load(ctx context.Context, path string) ([]domain.ImportRecord, error) {
	upload, err := p.source.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer upload.Body.Close()

	if err := importapp.CheckFile(upload.Name, upload.Size, importapp.DefaultMaxFileSize); err != nil {
		return nil, err
	}

	rows, err := p.parser.Parse(ctx, upload.Name, upload.Body)
	if err != nil {
		return nil, err
	}

	roster, err := p.roster.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", importapp.ErrLoadRoster, err)
	}

	records, err := importapp.Prepare(rows, roster)
	if err != nil {
		return nil, err
	}

	valid, invalid := domain.PreviewSession{Records: records}.Counts()
	p.logger.Info().
		Str("file", upload.Name).
		Int("rows", len(rows)).
		Int("valid", valid).
		Int("invalid", invalid).
		Msg("file validated")
	return records, nil
}

func printRecords(w io.Writer, page importapp.Page[domain.ImportRecord]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tSTATUS\tNAME\tCNPJ\tMANAGER\tERRORS")
	for _, r := range page.Items {
		manager := r.Fields[importapp.FieldManagerName]
		if r.Manager != nil {
			manager = r.Manager.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Line, r.Status, r.Fields[importapp.FieldName], r.Fields[importapp.FieldCNPJ], manager, strings.Join(r.Errors, "; "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d records\n", page.Page, page.PageCount, page.Total)
	return err
}

func printResult(w io.Writer, result domain.ImportResult, page int) error {
	if _, err := fmt.Fprintf(w, "total %d, success %d, errors %d, warnings %d\n",
		result.Total, result.SuccessCount, result.ErrorCount, result.WarningCount); err != nil {
		return err
	}

	details := importapp.Paginate(result.Details, page)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tSTATUS\tMESSAGE")
	for _, d := range details.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", d.Row, d.Status, d.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d/%d\n", details.Page, details.PageCount)
	return err
}

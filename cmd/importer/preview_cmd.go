package main

import (
	"fmt"

	"github.com/spf13/cobra"

	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/bulkclient"
)

type previewOptions struct {
	Page   int
	Status string
}

func newPreviewCmd(global *globalOptions) *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Validate a spreadsheet and show its records page by page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := global.validate(); err != nil {
				return err
			}
			status := domain.RecordStatus(opts.Status)
			if status != "" && status != domain.RecordValid && status != domain.RecordError {
				return fmt.Errorf("--status must be valid or error, got %q", opts.Status)
			}

			client := bulkclient.New(global.APIURL, global.UserID, bulkclient.WithRole(domain.Role(global.Role)))
			records, err := newPipeline(client, global.logger()).load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			valid, invalid := domain.PreviewSession{Records: records}.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "%d valid, %d with errors\n", valid, invalid)
			return printRecords(cmd.OutOrStdout(), importapp.Paginate(importapp.FilterRecords(records, status), opts.Page))
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page to show")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only records with this status (valid or error)")
	return cmd
}

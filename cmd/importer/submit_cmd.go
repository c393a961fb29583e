package main

import (
	"fmt"

	"github.com/spf13/cobra"

	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/bulkclient"
)

type submitOptions struct {
	DefaultOwnerID string
	Page           int
}

func newSubmitCmd(global *globalOptions) *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Validate a spreadsheet and import its valid records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := global.validate(); err != nil {
				return err
			}
			role := domain.Role(global.Role)
			if !domain.CanAssign(global.UserID, role, opts.DefaultOwnerID) {
				return importapp.ErrForbiddenOwner
			}

			logger := global.logger()
			client := bulkclient.New(global.APIURL, global.UserID, bulkclient.WithRole(role))

			records, err := newPipeline(client, logger).load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			owner := opts.DefaultOwnerID
			if owner == "" {
				owner = global.UserID
			}
			result, err := importapp.NewSubmitter(client, logger).Submit(cmd.Context(), importapp.SubmitInput{
				Records:        records,
				DefaultOwnerID: owner,
			})
			if err != nil {
				return err
			}

			if err := printResult(cmd.OutOrStdout(), result, opts.Page); err != nil {
				return err
			}
			if result.ErrorCount > 0 {
				return fmt.Errorf("%d of %d rows failed", result.ErrorCount, result.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.DefaultOwnerID, "default-owner", "", "owner for rows without a manager (admins only, defaults to --user-id)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page of the result details to show")
	return cmd
}

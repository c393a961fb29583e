package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	"github.com/leadflow/crm-import/internal/infrastructure/spreadsheet"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <output.csv|output.xlsx>",
		Short: "Write an empty import template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".csv" && ext != ".xlsx" {
				return fmt.Errorf("template must end in .csv or .xlsx, got %q", ext)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()

			columns := importapp.TemplateColumns()
			if ext == ".csv" {
				err = spreadsheet.WriteCSVTemplate(f, columns)
			} else {
				err = spreadsheet.WriteXLSXTemplate(f, columns)
			}
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", path)
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

type globalOptions struct {
	APIURL  string
	UserID  string
	Role    string
	Verbose bool
}

func (o globalOptions) validate() error {
	if strings.TrimSpace(o.APIURL) == "" {
		return errors.New("--api-url is required (or set CRM_API_URL)")
	}
	if _, err := uuid.Parse(o.UserID); err != nil {
		return errors.New("--user-id must be a UUID (or set CRM_USER_ID)")
	}
	if !domain.Role(o.Role).Valid() {
		return fmt.Errorf("--role must be admin or salesperson, got %q", o.Role)
	}
	return nil
}

func (o globalOptions) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if o.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "importer",
		Short:         "Preview and import company spreadsheets into the CRM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", envOr("CRM_API_URL", "http://localhost:8080"), "CRM API base URL")
	cmd.PersistentFlags().StringVar(&opts.UserID, "user-id", os.Getenv("CRM_USER_ID"), "UUID of the user running the import")
	cmd.PersistentFlags().StringVar(&opts.Role, "role", envOr("CRM_USER_ROLE", string(domain.RoleSalesperson)), "role of the user (admin or salesperson)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newPreviewCmd(opts))
	cmd.AddCommand(newSubmitCmd(opts))
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

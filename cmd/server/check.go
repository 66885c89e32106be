package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/damacus/iron-presign/internal/config"
	"github.com/damacus/iron-presign/internal/handlers"
	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/models"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/damacus/iron-presign/internal/utils"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("no link issued")

var checkCmd = &cobra.Command{
	Use:   "check <key>",
	Short: "Run the presign pipeline once for a key and print the decision",
	Long: `Check looks up the object, applies the archive policy and, when allowed, signs a link.
The decision is printed as JSON. The exit code is non-zero when no link was issued.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.SetOutput(logger.Console())
		logger.SetLevel(cfg.Log.Level)

		store, err := newStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}

		svc := newPresignService(cfg, store, nil)
		return runCheck(cmd, svc, models.ObjectKey(args[0]), cmd.OutOrStdout())
	},
}

// CheckReport is the JSON printed by the check command
type CheckReport struct {
	Key           string `json:"key"`
	Allowed       bool   `json:"allowed"`
	StorageClass  string `json:"storageClass,omitempty"`
	RestoreStatus string `json:"restoreStatus,omitempty"`
	Size          string `json:"size,omitempty"`
	URL           string `json:"url,omitempty"`
	ExpiresIn     int    `json:"expiresIn,omitempty"`
	ValidFor      string `json:"validFor,omitempty"`
	Error         string `json:"error,omitempty"`
	Message       string `json:"message,omitempty"`
}

func runCheck(cmd *cobra.Command, presigner handlers.Presigner, key models.ObjectKey, out io.Writer) error {
	outcome, err := presigner.Presign(cmd.Context(), key)

	report := CheckReport{Key: string(key)}
	if outcome.Eligibility.Tier != "" {
		report.StorageClass = outcome.Eligibility.Tier.String()
		report.RestoreStatus = outcome.Eligibility.Restore.String()
		report.Size = utils.FormatFileSize(outcome.Metadata.Size)
	}

	switch {
	case err != nil:
		report.Error = string(services.KindOf(err))
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			report.Message = svcErr.Message
		}
	case outcome.Link != nil:
		report.Allowed = true
		report.URL = outcome.Link.URL
		report.ExpiresIn = outcome.Link.ExpiresInSeconds
		report.ValidFor = utils.FormatTTL(time.Duration(outcome.Link.ExpiresInSeconds) * time.Second)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(report); encErr != nil {
		return fmt.Errorf("failed to write report: %w", encErr)
	}

	if !report.Allowed {
		return errCheckFailed
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/martirspe/complaints-book-pro/pkg/validation"
)

var trackCmd = &cobra.Command{
	Use:     "track <code>",
	Short:   "Show the status of a submitted claim",
	Example: "  claimctl track REC-2026-000123 --tenant acme",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTenant(); err != nil {
			return err
		}
		code := strings.TrimSpace(args[0])
		if !validation.IsClaimCode(code) {
			return fmt.Errorf("%q is not a claim code", code)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		t, err := newClient().TrackClaim(ctx, tenant, code)
		if err != nil {
			return fmt.Errorf("track %s: %w", code, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Code, t.StatusLabel())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/resolver"
	"github.com/martirspe/complaints-book-pro/internal/claim/submission"
	"github.com/martirspe/complaints-book-pro/internal/verification"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

var (
	draftPath     string
	dryRun        bool
	submitTimeout time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate and submit a claim described in YAML",
	Long: `Submit replays a YAML draft through the form engine, validates it with
the web form's rules and sends it to the backend.

Example:
  claimctl submit --file reclamo.yaml
  claimctl submit --file reclamo.yaml --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&draftPath, "file", "f", "", "YAML draft")
	submitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only")
	submitCmd.Flags().DurationVar(&submitTimeout, "timeout", time.Minute, "overall timeout")
	_ = submitCmd.MarkFlagRequired("file")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	doc, err := readDraftFile(draftPath)
	if err != nil {
		return err
	}
	if tenant == "" {
		tenant = doc.Tenant
	}
	if err := requireTenant(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
	defer cancel()

	client := newClient()
	cats, err := client.Catalogs(ctx)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	draft, warnings, err := doc.build(cats)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, w := range warnings {
		fmt.Fprintln(out, "warning:", w)
	}

	if dryRun {
		if printProblems(out, form.TouchAll(draft), cats.DocumentTypes) {
			return fmt.Errorf("draft is not valid")
		}
		fmt.Fprintln(out, "draft is valid")
		return nil
	}

	opts := []submission.Option{submission.WithLogger(log)}
	if cfg.Verification.IssuerURL != "" {
		opts = append(opts, submission.WithIssuer(
			verification.NewHTTPIssuer(cfg.Verification.IssuerURL, cfg.Verification.SecretKey, cfg.Verification.Timeout),
		))
	}
	orchestrator := submission.New(client, resolver.New(client, resolver.WithLogger(log)), opts...)

	res, err := orchestrator.Submit(ctx, tenant, submission.Snapshot{Draft: draft}, cats.DocumentTypes)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			printProblems(out, res.Draft, cats.DocumentTypes)
		}
		return fmt.Errorf("%s", dErrors.MessageOf(err, submission.MsgFallback))
	}
	fmt.Fprintln(out, res.Message)
	fmt.Fprintf(out, "code: %s\n", res.Receipt.Code)
	log.Debug("claim submitted", "tenant", tenant, "idempotency_key", res.IdempotencyKey)
	return nil
}

// printProblems writes one line per invalid touched field, sorted by field,
// and reports whether there was any.
func printProblems(w io.Writer, d form.Draft, types []catalog.DocumentType) bool {
	errs := form.Errors(d, types)
	fields := make([]form.Field, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f, errs[f])
	}
	return len(fields) > 0
}

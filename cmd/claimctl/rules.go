package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

var remoteRules bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List document-number rules",
	Long: `Rules prints the length and character constraints applied to document
numbers. With --remote the backend's document types are listed with the rule
each one resolves to.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var checkCmd = &cobra.Command{
	Use:   "check <document-type> <number>",
	Short: "Check a document number against its rule",
	Example: `  claimctl rules check DNI 1234567
  claimctl rules check pasaporte AB123456`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := catalog.RuleFor(args[0])
		number := strings.TrimSpace(args[1])
		if v := rule.Check(number); v != catalog.NoViolation {
			return fmt.Errorf("%s fails %s (%s)", number, v, rule.Hint)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid; lookup %s\n", number, lookupLabel(rule.Lookupable(number)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(checkCmd)
	rulesCmd.Flags().BoolVar(&remoteRules, "remote", false, "resolve the backend's document types")
}

func runRules(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !remoteRules {
		return printRules(out, catalog.Names())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	cats, err := newClient().Catalogs(ctx)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	return printDocumentTypes(out, cats.DocumentTypes)
}

func printRules(w io.Writer, names []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tMIN\tMAX\tHINT")
	for _, name := range names {
		r := catalog.RuleFor(name)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", name, r.Min, r.Max, r.Hint)
	}
	r := catalog.Generic
	fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", "(other)", r.Min, r.Max, r.Hint)
	return tw.Flush()
}

func printDocumentTypes(w io.Writer, types []catalog.DocumentType) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMIN\tMAX\tHINT")
	for _, t := range types {
		r := catalog.Resolve(types, strconv.Itoa(t.ID))
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", t.ID, t.Name, r.Min, r.Max, r.Hint)
	}
	return tw.Flush()
}

func lookupLabel(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}

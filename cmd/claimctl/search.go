package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search locations or calling codes with the form's ranking",
}

var searchLocationsCmd = &cobra.Command{
	Use:     "locations <term>",
	Short:   "Search districts, provinces and departments",
	Example: "  claimctl search locations miraflores",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.Join(args, " ")
		if !ranking.SearchableTerm(term) {
			return fmt.Errorf("search terms need at least %d characters", ranking.MinTermLength)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		results, err := newClient().SearchLocations(ctx, term)
		if err != nil {
			return fmt.Errorf("search locations: %w", err)
		}
		return printLocations(cmd.OutOrStdout(), limit(ranking.RankLocations(results, term)))
	},
}

var searchCodesCmd = &cobra.Command{
	Use:     "codes [term]",
	Short:   "Search international calling codes",
	Example: "  claimctl search codes peru\n  claimctl search codes +54",
	Args:    cobra.ArbitraryArgs,
	// calling codes are local; no config is needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := ranking.RankCallingCodes(ranking.CallingCodes(), strings.Join(args, " "))
		return printCallingCodes(cmd.OutOrStdout(), limit(codes))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(searchLocationsCmd, searchCodesCmd)
	searchCmd.PersistentFlags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results, 0 for all")
}

func limit[T any](items []T) []T {
	if searchLimit > 0 && len(items) > searchLimit {
		return items[:searchLimit]
	}
	return items
}

func printLocations(w io.Writer, locs []ranking.Location) error {
	if len(locs) == 0 {
		_, err := fmt.Fprintln(w, "no locations found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDISTRICT\tPROVINCE\tDEPARTMENT")
	for _, l := range locs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", l.ID, l.District, l.Province, l.Department)
	}
	return tw.Flush()
}

func printCallingCodes(w io.Writer, codes []ranking.CallingCode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCOUNTRY\tISO")
	for _, c := range codes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Dial, c.Name, c.ISO)
	}
	return tw.Flush()
}

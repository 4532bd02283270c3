package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/usecase"
)

// lineResult is one interpreted line in batch mode
type lineResult struct {
	Input      string              `json:"input"`
	Entry      *domain.ParsedEntry `json:"entry,omitempty"`
	CategoryID *string             `json:"categoryId"`
	Error      string              `json:"error,omitempty"`
}

type unitResult struct {
	Input string `json:"input"`
	Unit  string `json:"unit"`
	Known bool   `json:"known"`
}

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Split a pantry line into quantity, unit and ingredient",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := usecase.NewInputParser(opts.newLogger(cmd)).Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if opts.json {
				return opts.writeJSON(cmd.OutOrStdout(), entry)
			}
			return printEntry(cmd.OutOrStdout(), entry, false, nil)
		},
	}
}

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ingredient>",
		Short: "Suggest a storage category for an ingredient name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			var categoryID *string
			if id, ok := svc.Classify(name); ok {
				categoryID = &id
			}

			if opts.json {
				return opts.writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"name":       name,
					"categoryId": categoryID,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), categoryOrDash(categoryID))
			return err
		},
	}
}

func newInterpretCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interpret [text]",
		Short: "Parse a pantry line and suggest its category",
		Long: "Parse a pantry line and suggest its category.\n" +
			"Without arguments every non-blank line of stdin is interpreted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				suggestion, err := svc.Interpret(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if opts.json {
					return opts.writeJSON(cmd.OutOrStdout(), suggestion)
				}
				return printEntry(cmd.OutOrStdout(), suggestion.Entry, true, suggestion.CategoryID)
			}

			return interpretLines(cmd, opts, svc)
		},
	}
}

// interpretLines handles batch input. A bad line is reported and skipped;
// the command fails at the end if any line could not be parsed.
func interpretLines(cmd *cobra.Command, opts *options, svc *usecase.PantryService) error {
	var results []lineResult
	failed := 0

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result := lineResult{Input: line}
		suggestion, err := svc.Interpret(cmd.Context(), line)
		if err != nil {
			result.Error = err.Error()
			failed++
		} else {
			result.Entry = suggestion.Entry
			result.CategoryID = suggestion.CategoryID
		}
		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(results) == 0 {
		return invalidArgsError("no input: pass text as arguments or pipe lines on stdin")
	}

	out := cmd.OutOrStdout()
	if opts.json {
		if err := opts.writeJSON(out, results); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INPUT\tQUANTITY\tUNIT\tINGREDIENT\tCATEGORY")
		for _, r := range results {
			if r.Entry == nil {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", r.Input, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.Input, formatQuantity(r.Entry.Quantity), dash(r.Entry.Unit), r.Entry.IngredientName, categoryOrDash(r.CategoryID))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return &cliError{
			Code:     "PARTIAL",
			Message:  fmt.Sprintf("%d of %d lines could not be parsed", failed, len(results)),
			ExitCode: ExitNoResult,
		}
	}
	return nil
}

func newUnitsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "units <unit>...",
		Short: "Show the canonical code for unit spellings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]unitResult, 0, len(args))
			for _, raw := range args {
				results = append(results, unitResult{
					Input: raw,
					Unit:  usecase.NormalizeUnit(raw),
					Known: usecase.IsKnownUnit(raw),
				})
			}

			if opts.json {
				return opts.writeJSON(cmd.OutOrStdout(), results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range results {
				known := ""
				if !r.Known {
					known = "(unknown)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Input, dash(r.Unit), known)
			}
			return tw.Flush()
		},
	}
}

// printEntry writes one entry as aligned key/value lines. The category line
// appears only for interpret output.
func printEntry(w io.Writer, entry *domain.ParsedEntry, showCategory bool, categoryID *string) error {
	if entry == nil {
		return errors.New("no entry")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "quantity:\t%s\n", formatQuantity(entry.Quantity))
	fmt.Fprintf(tw, "unit:\t%s\n", dash(entry.Unit))
	fmt.Fprintf(tw, "ingredient:\t%s\n", entry.IngredientName)
	if entry.UsedFallback {
		fmt.Fprintf(tw, "fallback:\tyes\n")
	}
	if showCategory {
		fmt.Fprintf(tw, "category:\t%s\n", categoryOrDash(categoryID))
	}
	return tw.Flush()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func categoryOrDash(id *string) string {
	if id == nil {
		return "-"
	}
	return *id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

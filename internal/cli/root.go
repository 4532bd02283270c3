// Package cli implements pantryctl, a command line front end for the pantry interpreter
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/remote"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/seed"
	"github.com/takato23/acomerlahechopormi-sub001/internal/logger"
	"github.com/takato23/acomerlahechopormi-sub001/internal/usecase"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNoResult is returned when input could not be parsed or classified.
	ExitNoResult = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when the keyword source fails.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

// options holds the persistent flags shared by every subcommand
type options struct {
	json        bool
	keywordsURL string
	apiKey      string
	logLevel    string
	timeout     time.Duration
}

// cliError carries a stable code alongside the exit status
type cliError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ExitCode int    `json:"exitCode"`
}

func (e *cliError) Error() string { return e.Message }

// Execute runs pantryctl with the process arguments and exits.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	return execute(args, os.Stdin, stdout, stderr)
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{}
	root := newRootCmd(opts)
	setCommandIO(root, stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if opts.json {
			if jerr := json.NewEncoder(stderr).Encode(map[string]*cliError{"error": cliErr}); jerr != nil {
				fmt.Fprintf(stderr, "error: %v\n", jerr)
				return ExitInternal
			}
		} else {
			fmt.Fprintf(stderr, "error: %s\n", cliErr.Message)
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "pantryctl",
		Short: "Interpret free-text pantry entries",
		Long: "pantryctl turns short Spanish pantry lines such as \"2 kg de harina\" or\n" +
			"\"una docena de huevos\" into a quantity, a canonical unit and an ingredient\n" +
			"name, and suggests a storage category for the ingredient.",
		Example: `  pantryctl parse "2 kg de harina"
  pantryctl classify "leche entera"
  pantryctl interpret "una docena de huevos" --json
  echo "3 tomates" | pantryctl interpret
  pantryctl units kilos gr paquete`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.json, "json", false, "Output as JSON")
	pf.StringVar(&opts.keywordsURL, "keywords-url", "", "Base URL of a remote keyword service (default: embedded seed table)")
	pf.StringVar(&opts.apiKey, "api-key", os.Getenv("PANTRY_KEYWORDS_API_KEY"), "API key for the remote keyword service")
	pf.StringVar(&opts.logLevel, "log-level", "error", "Log level written to stderr (debug, info, warn, error)")
	pf.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout for loading keywords")

	root.AddCommand(
		newParseCmd(opts),
		newClassifyCmd(opts),
		newInterpretCmd(opts),
		newUnitsCmd(opts),
	)
	return root
}

func setCommandIO(cmd *cobra.Command, stdin io.Reader, stdout, stderr io.Writer) {
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdin, stdout, stderr)
	}
}

// newLogger writes to the command's stderr so stdout stays machine readable
func (o *options) newLogger(cmd *cobra.Command) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(cmd.ErrOrStderr()),
		logger.ParseLevel(o.logLevel),
	)
	return zap.New(core)
}

// keywordSource picks the remote service when a URL is given, else the embedded seed
func (o *options) keywordSource(log *zap.Logger) (domain.KeywordSource, error) {
	if o.keywordsURL == "" {
		s, err := seed.NewSource()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return remote.NewClient(o.apiKey, o.keywordsURL, 0, log.Named("remote")), nil
}

// newService builds a pantry service with a loaded keyword index
func (o *options) newService(cmd *cobra.Command) (*usecase.PantryService, error) {
	log := o.newLogger(cmd)

	source, err := o.keywordSource(log)
	if err != nil {
		return nil, err
	}

	index := usecase.NewKeywordIndex(source, log.Named("index"))
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	if err := index.Load(ctx); err != nil {
		return nil, err
	}
	return usecase.NewPantryService(index, log), nil
}

func (o *options) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func invalidArgsError(msg string) error {
	return &cliError{Code: "INVALID_ARGS", Message: msg, ExitCode: ExitInvalidArgs}
}

func classifyCLIError(err error) *cliError {
	var cliErr *cliError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		return &cliError{Code: string(perr.Kind), Message: fmt.Sprintf("could not parse %q", perr.Input), ExitCode: ExitNoResult}
	case errors.Is(err, domain.ErrKeywordSourceUnavailable):
		return &cliError{Code: "KEYWORDS_UNAVAILABLE", Message: err.Error(), ExitCode: ExitUpstream}
	case errors.Is(err, context.DeadlineExceeded):
		return &cliError{Code: "TIMEOUT", Message: err.Error(), ExitCode: ExitUpstream}
	case isCobraUsageError(err):
		return &cliError{Code: "INVALID_ARGS", Message: err.Error(), ExitCode: ExitInvalidArgs}
	default:
		return &cliError{Code: "INTERNAL", Message: err.Error(), ExitCode: ExitInternal}
	}
}

// isCobraUsageError matches the plain errors cobra returns for bad flags and arguments
func isCobraUsageError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "requires at least", "accepts ", "flag needs an argument"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

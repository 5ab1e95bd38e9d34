// Package cli implements the lexifuzz command tree: global flags, config and
// logger initialisation, the subcommands and the shared output helpers.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexiFuzz-NER/internal/config"
	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/common"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigFile   string
	Logger       logging.Logger
	OutputFormat common.OutputFormat
	Verbose      bool
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lexifuzz",
		Short: "Dictionary-driven fuzzy named entity extraction",
		Long: "lexifuzz finds entities in free text by fuzzy-matching every n-gram against\n" +
			"a categorised phrase dictionary, keeps the best non-overlapping matches and\n" +
			"prints them together with an annotated copy of the text.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./lexifuzz.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", string(common.OutputText), "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		NewExtractCmd(),
		NewDictCmd(),
		NewScoreCmd(),
		newVersionCmd(),
	)

	return cmd
}

// persistentPreRun initializes config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	format := common.OutputFormat(strings.ToLower(opts.OutputFormat))
	if !format.Valid() {
		return errors.InvalidParam("unknown output format").
			WithDetail(fmt.Sprintf("output=%q expected text|json|table", opts.OutputFormat))
	}

	cfg, file, err := initConfig(opts)
	if err != nil {
		return err
	}

	logger, err := initLogger(cmd, cfg, opts)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	if file != "" {
		logger.Debug("configuration loaded", logging.String("path", file))
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigFile:   file,
		Logger:       logger,
		OutputFormat: format,
		Verbose:      opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))

	return nil
}

// initConfig loads configuration with priority: env > file > defaults. When
// --config is not given the standard search paths are probed.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	return config.Discover(opts.ConfigPath, config.SearchPaths())
}

// initLogger creates the logger. Entries go to log.output_paths when set and
// to the command's stderr otherwise, in log.format. --verbose wins over
// --log-level, which wins over log.level.
func initLogger(cmd *cobra.Command, cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		parsed, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid --log-level")
		}
		level = parsed
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	if len(cfg.Log.OutputPaths) > 0 {
		logCfg := cfg.Log
		logCfg.Level = level
		logger, err := logging.NewLogger(logCfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "log.output_paths is invalid")
		}
		return logger, nil
	}
	if cfg.Log.Format == "console" {
		return logging.NewConsoleLogger(cmd.ErrOrStderr(), level), nil
	}
	return logging.NewJSONLogger(cmd.ErrOrStderr(), level), nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InvalidParam("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InvalidParam("CLIContext not found in command context")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}

	return nil
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		// Fallback to JSON if context unavailable.
		return printJSON(cmd, data)
	}

	switch cliCtx.OutputFormat {
	case common.OutputJSON:
		return printJSON(cmd, data)
	case common.OutputTable:
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode output")
	}
	return nil
}

// printText outputs data as a simple string representation to stdout.
func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// tableProvider is implemented by results that can render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// printTable outputs data as a table if it implements tableProvider,
// otherwise falls back to text.
func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr. Usage errors get a
// pointer to --help.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
	if errors.IsUsageError(errors.GetCode(err)) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	// Compute column widths.
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if w := displayWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder

	// Header row.
	writeRow(&sb, headers, colWidths)

	// Separator.
	for i, w := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")

	// Data rows.
	for _, row := range rows {
		writeRow(&sb, row, colWidths)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	for i := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		val := ""
		if i < len(row) {
			val = row[i]
		}
		if i == len(widths)-1 {
			sb.WriteString(val)
		} else {
			sb.WriteString(padRight(val, widths[i]))
		}
	}
	sb.WriteString("\n")
}

// padRight pads s with spaces to the given width in characters.
func padRight(s string, width int) string {
	if w := displayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func displayWidth(s string) int { return len([]rune(s)) }

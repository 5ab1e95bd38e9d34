package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexiFuzz-NER/internal/config"
	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

type extractOptions struct {
	file          string
	lines         bool
	dict          string
	minRatio      int
	policy        string
	locate        string
	annotateOrder string
	scorer        string
	processor     string
	ids           string
	idPrefix      string
	metricsFile   string
	workers       int
	timeout       time.Duration
	strict        bool
}

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract dictionary entities from text",
		Long: "Extract scans the text for n-grams that fuzzy-match a dictionary phrase,\n" +
			"keeps the highest-scoring non-overlapping matches and prints them.\n\n" +
			"The text comes from the argument, --file, or stdin. With --lines every\n" +
			"non-empty input line is extracted separately.",
		Example: `  lexifuzz extract -d dict.yaml "I work at Acme Corp in New York"
  lexifuzz extract -d dict.yaml --min-ratio 70 -o table -f notes.txt
  cat notes.txt | lexifuzz extract -d dict.yaml --lines -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "read the text from a file (- for stdin)")
	flags.BoolVar(&opts.lines, "lines", false, "extract every non-empty line as a separate text")
	flags.StringVarP(&opts.dict, "dict", "d", "", "dictionary file (YAML or JSON); overrides dictionary.path")
	flags.IntVar(&opts.minRatio, "min-ratio", config.DefaultMinRatio, "minimum similarity ratio in [0, 100]")
	flags.StringVar(&opts.policy, "policy", "", "category match policy (first_satisfying, best_overall)")
	flags.StringVar(&opts.locate, "locate", "", "locate mode (token_offset, forward_cursor)")
	flags.StringVar(&opts.annotateOrder, "annotate-order", "", "annotation order (text_order, resolver_order)")
	flags.StringVar(&opts.scorer, "scorer", "", "similarity scorer (ratio, levenshtein, jaro_winkler)")
	flags.StringVar(&opts.processor, "processor", "", "string processor (default, nfkc, ascii_fold, none)")
	flags.StringVar(&opts.ids, "ids", "", "entity id generator (uuid, sequence)")
	flags.StringVar(&opts.idPrefix, "id-prefix", "", "prefix for entity ids (sequence default: ent)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	flags.BoolVar(&opts.strict, "strict", false, "fail when a match cannot be located in the text instead of placing it at offset 0")
	flags.IntVar(&opts.workers, "workers", 1, "texts extracted in parallel with --lines; ids are only reproducible with 1")
	flags.DurationVar(&opts.timeout, "timeout", 0, "abort the extraction after this long (0 disables)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	start := time.Now()

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	logger := cliCtx.Logger

	texts, err := readTexts(cmd, args, opts)
	if err != nil {
		return err
	}

	dict, source, err := resolveDictionary(cliCtx, opts.dict)
	if err != nil {
		return err
	}

	extractorCfg := extractorConfigFromFlags(cmd, cliCtx.Config, opts)

	var extractionMetrics *prometheus.ExtractionMetrics
	var collector prometheus.MetricsCollector
	runTimer := prometheus.NewTimer(nil)
	metricsFile := metricsTextfile(cliCtx.Config, opts)
	if metricsFile != "" {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cliCtx.Config.Metrics.Namespace,
			Subsystem: cliCtx.Config.Metrics.Subsystem,
		}, logger)
		if err != nil {
			return err
		}
		extractionMetrics = prometheus.NewExtractionMetrics(collector)
		extractionMetrics.RecordDictionary(dict)
		runTimer = extractionMetrics.StartRun()
	}

	extractorOpts := []fuzzy_ner.Option{fuzzy_ner.WithLogger(logger)}
	if extractionMetrics != nil {
		extractorOpts = append(extractorOpts, fuzzy_ner.WithMetrics(extractionMetrics))
	}
	extractor, err := fuzzy_ner.NewExtractor(extractorCfg, extractorOpts...)
	if err != nil {
		return err
	}

	logger.Debug("starting extraction",
		logging.String(logging.FieldDictionary, source),
		logging.Int(logging.FieldMinRatio, extractorCfg.MinRatio),
		logging.Int("texts", len(texts)))

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	sets, err := extractor.ExtractConcurrent(ctx, texts, dict, opts.workers)
	if err != nil {
		logger.WithError(err).Debug("extraction failed", logging.Int("texts", len(texts)))
		return err
	}
	runTimer.ObserveDuration()

	if collector != nil {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			return err
		}
		logger.Debug("metrics written", logging.String("path", metricsFile))
	}

	result := &extractResult{Sets: sets, batch: opts.lines}
	logging.LogOperationDuration(logger, "extract", start,
		logging.Int("texts", len(sets)),
		logging.Int("entities", result.entityCount()))

	return PrintResult(cmd, result)
}

// readTexts returns the input texts. An argument wins over --file, which wins
// over stdin.
func readTexts(cmd *cobra.Command, args []string, opts *extractOptions) ([]string, error) {
	var raw string
	switch {
	case len(args) == 1:
		if opts.file != "" {
			return nil, errors.InvalidParam("pass either a text argument or --file, not both")
		}
		raw = args[0]
	case opts.file != "" && opts.file != "-":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NotFound("input file not found").WithDetail("path=" + opts.file).WithCause(err)
			}
			return nil, errors.Wrap(err, errors.ErrCodeIO, "read input file").WithDetail("path=" + opts.file)
		}
		raw = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIO, "read stdin")
		}
		raw = string(data)
	}

	if !opts.lines {
		return []string{strings.TrimRight(raw, "\r\n")}, nil
	}

	var texts []string
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "split input lines")
	}
	return texts, nil
}

// extractorConfigFromFlags starts from the extraction section of cfg and
// applies every flag the user set explicitly.
func extractorConfigFromFlags(cmd *cobra.Command, cfg *config.Config, opts *extractOptions) fuzzy_ner.ExtractorConfig {
	ec := cfg.Extraction.ExtractorConfig()
	flags := cmd.Flags()

	if flags.Changed("min-ratio") {
		ec.MinRatio = opts.minRatio
	}
	if flags.Changed("policy") {
		ec.MatchPolicy = fuzzy_ner.MatchPolicy(opts.policy)
	}
	if flags.Changed("locate") {
		ec.LocateMode = fuzzy_ner.LocateMode(opts.locate)
	}
	if flags.Changed("annotate-order") {
		ec.AnnotateOrder = fuzzy_ner.AnnotateOrder(opts.annotateOrder)
	}
	if flags.Changed("scorer") {
		ec.Scorer = opts.scorer
	}
	if flags.Changed("processor") {
		ec.Processor = opts.processor
	}
	if flags.Changed("ids") {
		ec.IDGenerator = opts.ids
	}
	if flags.Changed("id-prefix") {
		ec.IDPrefix = opts.idPrefix
	}
	if flags.Changed("strict") {
		ec.StrictLocate = opts.strict
	}
	return ec
}

func metricsTextfile(cfg *config.Config, opts *extractOptions) string {
	if opts.metricsFile != "" {
		return opts.metricsFile
	}
	if cfg.Metrics.Enabled {
		return cfg.Metrics.TextfilePath
	}
	return ""
}

// -----------------------------------------------------------------------------
// Output
// -----------------------------------------------------------------------------

// extractResult renders one or more entity sets. In batch mode JSON output is
// an array and table rows carry the line number.
type extractResult struct {
	Sets  []*ner.EntitySet
	batch bool
}

func (r *extractResult) entityCount() int {
	n := 0
	for _, s := range r.Sets {
		n += len(s.Entities)
	}
	return n
}

// String prints the annotated text, one line per input text.
func (r *extractResult) String() string {
	lines := make([]string, len(r.Sets))
	for i, s := range r.Sets {
		lines[i] = s.TextAnnotated
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON implements json.Marshaler.
func (r *extractResult) MarshalJSON() ([]byte, error) {
	if !r.batch && len(r.Sets) == 1 {
		return marshalNoEscape(r.Sets[0])
	}
	sets := r.Sets
	if sets == nil {
		sets = []*ner.EntitySet{}
	}
	return marshalNoEscape(sets)
}

// TableHeaders implements tableProvider.
func (r *extractResult) TableHeaders() []string {
	headers := []string{"ID", "ENTITY", "CATEGORY", "SCORE", "START", "END", "PHRASE"}
	if r.batch {
		headers = append([]string{"LINE"}, headers...)
	}
	return headers
}

// TableRows implements tableProvider. Rows follow reading order.
func (r *extractResult) TableRows() [][]string {
	var rows [][]string
	for i, s := range r.Sets {
		for _, e := range s.SortedByStart() {
			row := []string{
				e.ID,
				e.Text,
				e.Category,
				strconv.Itoa(e.Score),
				strconv.Itoa(e.Index.Start),
				strconv.Itoa(e.Index.End),
				e.Phrase,
			}
			if r.batch {
				row = append([]string{strconv.Itoa(i + 1)}, row...)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

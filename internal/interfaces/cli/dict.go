package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// sourceInline names a dictionary taken from the config file.
const sourceInline = "config:dictionary.categories"

// NewDictCmd creates the dict command group.
func NewDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect entity dictionaries",
	}
	cmd.AddCommand(newDictInspectCmd())
	return cmd
}

func newDictInspectCmd() *cobra.Command {
	var dictPath string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Load, validate and summarise a dictionary",
		Long: "Inspect loads a dictionary from the argument, --dict, dictionary.path or the\n" +
			"inline dictionary.categories of the config, validates it, and prints its\n" +
			"categories with phrase counts and the n-gram bound max_n.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			path := dictPath
			if len(args) == 1 {
				path = args[0]
			}

			dict, source, err := resolveDictionary(cliCtx, path)
			if err != nil {
				return err
			}
			summary := summarizeDictionary(dict, source)
			cliCtx.Logger.Info("dictionary is valid",
				logging.String(logging.FieldDictionary, source),
				logging.Int("categories", len(summary.Categories)),
				logging.Int("phrases", summary.Phrases))
			return PrintResult(cmd, summary)
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dict", "d", "", "dictionary file (YAML or JSON)")
	return cmd
}

// resolveDictionary loads the dictionary named by path, or the one configured
// in cliCtx. It returns the dictionary and a description of its source.
func resolveDictionary(cliCtx *CLIContext, path string) (ner.Dictionary, string, error) {
	if path == "" {
		path = cliCtx.Config.Dictionary.Path
	}
	if path != "" {
		dict, err := fuzzy_ner.LoadDictionaryFile(path)
		if err != nil {
			return ner.Dictionary{}, "", err
		}
		return dict, path, nil
	}
	if cliCtx.Config.Dictionary.HasInline() {
		dict := cliCtx.Config.Dictionary.ToDictionary()
		if err := dict.Validate(); err != nil {
			return ner.Dictionary{}, "", err
		}
		return dict, sourceInline, nil
	}
	return ner.Dictionary{}, "", errors.InvalidParam("no dictionary configured").
		WithDetail("pass --dict or set dictionary.path in the config")
}

type categorySummary struct {
	Name      string `json:"name"`
	Phrases   int    `json:"phrases"`
	MaxTokens int    `json:"max_tokens"`
}

type dictionarySummary struct {
	Source     string            `json:"source"`
	Categories []categorySummary `json:"categories"`
	Phrases    int               `json:"phrases"`
	MaxN       int               `json:"max_n"`
}

func summarizeDictionary(dict ner.Dictionary, source string) *dictionarySummary {
	s := &dictionarySummary{
		Source:     source,
		Categories: make([]categorySummary, 0, dict.Len()),
		Phrases:    dict.PhraseCount(),
		MaxN:       dict.MaxPhraseTokens(),
	}
	for _, c := range dict.Categories {
		s.Categories = append(s.Categories, categorySummary{
			Name:      c.Name,
			Phrases:   len(c.Phrases),
			MaxTokens: ner.NewDictionary(c).MaxPhraseTokens(),
		})
	}
	return s
}

func (s *dictionarySummary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "source: %s\n", s.Source)
	fmt.Fprintf(&sb, "categories: %d\n", len(s.Categories))
	fmt.Fprintf(&sb, "phrases: %d\n", s.Phrases)
	fmt.Fprintf(&sb, "max_n: %d", s.MaxN)
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "\n  %s: %d phrases, up to %d tokens", c.Name, c.Phrases, c.MaxTokens)
	}
	return sb.String()
}

// TableHeaders implements tableProvider.
func (s *dictionarySummary) TableHeaders() []string {
	return []string{"CATEGORY", "PHRASES", "MAX_TOKENS"}
}

// TableRows implements tableProvider.
func (s *dictionarySummary) TableRows() [][]string {
	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Phrases), strconv.Itoa(c.MaxTokens)})
	}
	return rows
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ling0322/cfg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "cfg",
		Short: "Normalize context-free grammars and recognize words with CYK",
		Long: `cfg reads a grammar in the text format

  %terminals a b
  %nonterminals S A
  %start S
  S ::= aSb | l

removes useless, lambda and unit productions and useless symbols, converts
the result to Chomsky normal form and decides membership with CYK.
FILE may be "-" to read standard input.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Bool("strict", false, "Repeat the normalization passes until nothing changes")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every pipeline stage and CYK row")
	rootCmd.PersistentFlags().String("config", "", "Config file with strict and verbose keys")
	bindErr := v.BindPFlags(rootCmd.PersistentFlags())
	v.SetEnvPrefix("CFG")
	v.AutomaticEnv()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return errors.Wrap(bindErr, "failed to bind flags")
		}
		return loadConfig(v)
	}

	// Normalize command - well-formed grammar and report
	normalizeCmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Print the well-formed grammar and what each pass removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, v, args)
		},
	}

	cnfCmd := &cobra.Command{
		Use:   "cnf FILE",
		Short: "Print the grammar in Chomsky normal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCNF(cmd, v, args)
		},
	}

	deriveCmd := &cobra.Command{
		Use:   "derive FILE WORD...",
		Short: "Check whether each word is in the language of the grammar",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, v, args)
		},
	}
	deriveCmd.Flags().Bool("table", false, "Print the CYK table of each word")

	rootCmd.AddCommand(normalizeCmd, cnfCmd, deriveCmd)
	return rootCmd
}

// loadConfig reads the config file given by --config or CFG_CONFIG, if any
func loadConfig(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config %s", path)
	}
	return nil
}

// pipelineOptions builds the cfg options from the merged flags, environment
// and config file. Logs go to the command's stderr
func pipelineOptions(cmd *cobra.Command, v *viper.Viper) []cfg.Option {
	level := slog.LevelWarn
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return []cfg.Option{
		cfg.WithStrict(v.GetBool("strict")),
		cfg.WithLogger(logger),
	}
}

func readText(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read grammar %s", path)
	}
	return string(data), nil
}

func readGrammar(cmd *cobra.Command, path string) (*cfg.Grammar, error) {
	text, err := readText(cmd, path)
	if err != nil {
		return nil, err
	}
	grammar, err := cfg.ParseGrammar(text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse grammar %s", path)
	}
	return grammar, nil
}

func runNormalize(cmd *cobra.Command, v *viper.Viper, args []string) error {
	grammar, err := readGrammar(cmd, args[0])
	if err != nil {
		return err
	}
	report, err := grammar.TransformToWellFormed(pipelineOptions(cmd, v)...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	comment := func(name, value string) {
		if value == "" {
			fmt.Fprintf(out, "# %s:\n", name)
			return
		}
		fmt.Fprintf(out, "# %s: %s\n", name, value)
	}
	comment("useless productions", strings.Join(report.UselessProductions, ", "))
	comment("lambda non-terminals", symbolList(report.LambdaNonterminals))
	comment("unit productions", strings.Join(report.UnitProductions, ", "))
	comment("useless symbols", symbolList(report.UselessSymbols))
	comment("rounds", strconv.Itoa(report.Rounds))
	fmt.Fprint(out, grammar.String())
	return nil
}

func runCNF(cmd *cobra.Command, v *viper.Viper, args []string) error {
	grammar, err := readGrammar(cmd, args[0])
	if err != nil {
		return err
	}
	opts := pipelineOptions(cmd, v)
	if _, err := grammar.TransformToWellFormed(opts...); err != nil {
		return err
	}
	if err := grammar.TransformToCNF(opts...); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), grammar.String())
	return nil
}

func runDerive(cmd *cobra.Command, v *viper.Viper, args []string) error {
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}
	printTable, err := cmd.Flags().GetBool("table")
	if err != nil {
		return errors.Wrap(err, "failed to read --table flag")
	}

	parser, err := cfg.NewParser(text, pipelineOptions(cmd, v)...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, word := range args[1:] {
		table, err := parser.Table(word)
		if err != nil {
			return err
		}
		verdict := "rejected"
		if table.Accepted() {
			verdict = "accepted"
		}
		fmt.Fprintf(out, "%q: %s\n", word, verdict)
		if printTable {
			fmt.Fprint(out, table.String())
		}
	}
	return nil
}

func symbolList(symbols []cfg.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Command arrange validates and aligns the mesomeries, retrosyntheses and
// reaction schemes of a document.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gchempaint/arrange"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Command flags
	outPath string
	split   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "arrange",
	Short: "Validate and lay out chained chemical diagrams",
	Long: `arrange reads an XML document holding mesomeries, retrosyntheses and
reaction schemes, checks that each forms a single connected diagram, and
lines the molecules up along their arrows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check every relationship of a document",
	Long: `Validates every relationship and prints one line per relationship with its
status. With --split, isolated objects are released and disconnected parts
become relationships of their own; the repaired document is written to
--output when given.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var alignCmd = &cobra.Command{
	Use:   "align FILE",
	Short: "Lay out every relationship of a document",
	Long: `Validates (splitting disconnected parts) and aligns every relationship, then
writes the document to --output, or to standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML layout configuration")

	validateCmd.Flags().BoolVar(&split, "split", false, "repair relationships instead of only reporting")
	validateCmd.Flags().StringVarP(&outPath, "output", "o", "", "write the repaired document here")
	alignCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: standard output)")

	rootCmd.AddCommand(validateCmd, alignCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDocument(path string) (*arrange.Document, *arrange.SerialContext, error) {
	cfg, err := arrange.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	ctx := arrange.NewSerialContext()
	doc, err := arrange.Load(f, ctx, arrange.WithConfig(cfg), arrange.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("document opened", zap.String("path", path), zap.Int("relationships", len(doc.Relationships())))
	return doc, ctx, nil
}

func saveDocument(doc *arrange.Document, ctx *arrange.SerialContext, path string, stdout io.Writer) error {
	if path == "" {
		return doc.Save(stdout, ctx)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := doc.Save(f, ctx); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, ctx, err := openDocument(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := 0
	seen := make(map[*arrange.Relationship]bool)
	// Splitting adds relationships, which are validated by their parent
	// and reported on the next pass.
	for {
		var pending []*arrange.Relationship
		for _, rel := range doc.Relationships() {
			if !seen[rel] {
				pending = append(pending, rel)
			}
		}
		if len(pending) == 0 {
			break
		}
		for _, rel := range pending {
			seen[rel] = true
			if rel.Destroyed() {
				continue
			}
			st, err := rel.Validate(split)
			fmt.Fprintf(out, "%s\t%s\t%s\n", rel.Name, rel.Kind(), st)
			if err != nil {
				failed++
				fmt.Fprintf(out, "\t%s\n", describe(doc, err))
			}
		}
	}
	if split && outPath != "" {
		if err := saveDocument(doc, ctx, outPath, out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d invalid relationships", failed)
	}
	return nil
}

func runAlign(cmd *cobra.Command, args []string) error {
	doc, ctx, err := openDocument(args[0])
	if err != nil {
		return err
	}
	var errs error
	for _, rel := range doc.Relationships() {
		if _, err := rel.Validate(true); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", rel.Name, describe(doc, err)))
			continue
		}
		if err := rel.Align(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", rel.Name, describe(doc, err)))
			continue
		}
		logger.Info("aligned", zap.String("relationship", rel.Name), zap.Stringer("kind", rel.Kind()))
	}
	if errs != nil {
		return errs
	}
	return saveDocument(doc, ctx, outPath, cmd.OutOrStdout())
}

// describe renders layout errors with the names of the objects they
// involve.
func describe(doc *arrange.Document, err error) string {
	var parts []string
	for _, e := range multierr.Errors(err) {
		var le *arrange.LayoutError
		if !errors.As(e, &le) {
			parts = append(parts, e.Error())
			continue
		}
		var names []string
		for _, n := range le.Nodes {
			if node := doc.Node(n); node != nil {
				names = append(names, node.Name)
			}
		}
		for _, a := range le.Arrows {
			if arrow := doc.Arrow(a); arrow != nil {
				names = append(names, arrow.Name)
			}
		}
		if len(names) == 0 {
			parts = append(parts, le.Error())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", le.Error(), strings.Join(names, " ")))
	}
	return strings.Join(parts, "; ")
}

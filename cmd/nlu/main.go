// Package main provides the nlu binary entry point.
// nlu resolves short model refs into wired NLP pipelines and inspects the result.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/c360studio/nlu/config"
	"github.com/c360studio/nlu/input"
	"github.com/c360studio/nlu/pipeline"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "nlu"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	registry   []string
	language   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Resolve and wire NLP pipelines from short model refs",
		Long: `nlu turns refs such as "pos", "en.lemma", "emotion" or "ner" into
complete NLP pipelines.

It resolves refs against the model registry, injects missing upstream
components (document assemblers, sentence detectors, tokenizers, embeddings
and embedding converters), tags embedding columns with their storage
references and orders everything by feature dependency.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML); skips the layered lookup")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&flags.registry, "registry", nil, "Additional registry file patterns (JSON/YAML, doublestar globs)")
	cmd.PersistentFlags().StringVar(&flags.language, "lang", "", "Default language for refs without one")

	cmd.AddCommand(
		resolveCmd(flags),
		refsCmd(flags),
		predictCmd(flags),
		watchCmd(flags),
		historyCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		dump   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <ref>...",
		Short: "Resolve refs and print the wired pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			ctx := cmd.Context()
			if err := app.Start(ctx); err != nil {
				return err
			}

			p, err := app.Load(ctx, strings.Join(args, " "), nil)
			if err != nil {
				return err
			}
			logger.Debug("Resolved pipeline", "pipeline_id", p.ID)

			out := cmd.OutOrStdout()
			switch {
			case dump:
				dumpConfig().Fdump(out, p.Components)
				return nil
			case asJSON:
				return writeJSON(out, p.Summary())
			default:
				return printPipeline(out, p)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pipeline summary as JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the full component structures")
	return cmd
}

func refsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "List the refs known to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "REF\tCOMPONENTS\tDESCRIPTION")
			for _, key := range app.registry.ListRefs() {
				ref := app.registry.GetRef(key)
				if ref == nil {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, strings.Join(ref.Components, ","), ref.Description)
			}
			return tw.Flush()
		},
	}
}

func predictCmd(flags *globalFlags) *cobra.Command {
	var (
		texts          []string
		htmlFiles      []string
		outputLevel    string
		dropIrrelevant bool
		withMetadata   bool
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "predict <ref>...",
		Short: "Run a pipeline over text or HTML documents",
		Long: `Run a pipeline over text or HTML documents.

Model execution is delegated to an external executor. With --dry-run the
pipeline is wired and every document yields a row listing the columns the
pipeline would produce.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := pipeline.ParseOutputLevel(outputLevel)
			if err != nil {
				return err
			}

			docs := input.FromText(texts...)
			if len(htmlFiles) > 0 {
				pages := make([][]byte, 0, len(htmlFiles))
				for _, f := range htmlFiles {
					data, err := os.ReadFile(f)
					if err != nil {
						return fmt.Errorf("read %s: %w", f, err)
					}
					pages = append(pages, data)
				}
				htmlDocs, err := input.FromHTML(pages...)
				if err != nil {
					return fmt.Errorf("convert HTML: %w", err)
				}
				for _, d := range htmlDocs {
					d.Index = len(docs)
					docs = append(docs, d)
				}
			}
			if len(docs) == 0 {
				return fmt.Errorf("nothing to predict: pass --text or --html")
			}

			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			ctx := cmd.Context()
			if err := app.Start(ctx); err != nil {
				return err
			}

			var executor pipeline.Executor
			if dryRun {
				executor = pipeline.DryRunExecutor{}
			}
			p, err := app.Load(ctx, strings.Join(args, " "), executor)
			if err != nil {
				return err
			}

			rows, err := p.Predict(ctx, docs, pipeline.PredictOptions{
				OutputLevel:        level,
				DropIrrelevantCols: dropIrrelevant,
				Metadata:           withMetadata,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringArrayVarP(&texts, "text", "t", nil, "Text document (repeatable)")
	cmd.Flags().StringArrayVar(&htmlFiles, "html", nil, "HTML file to convert into a document (repeatable)")
	cmd.Flags().StringVar(&outputLevel, "output-level", "", "Row granularity (token, chunk, sentence, document); inferred when empty")
	cmd.Flags().BoolVar(&dropIrrelevant, "drop-irrelevant", true, "Drop internal columns from the rows")
	cmd.Flags().BoolVar(&withMetadata, "metadata", false, "Include annotation metadata")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Wire the pipeline without executing models")
	return cmd
}

func historyCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history [ref]",
		Short: "List recorded pipeline resolutions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			ctx := cmd.Context()
			if err := app.Start(ctx); err != nil {
				return err
			}

			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			entries, err := app.History(ctx, ref)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tREF\tLANG\tCOMPONENTS\tRESOLVED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Ref, e.Language, len(e.Components), e.ResolvedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n entries (0 = all)")
	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload registry files on change and serve metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			signalCtx, signalCancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer signalCancel()

			if err := app.Start(signalCtx); err != nil {
				return err
			}
			if err := app.Watch(signalCtx); err != nil {
				return err
			}
			logger.Info("Received shutdown signal")
			return nil
		},
	}
}

// setup loads configuration, applies flag overrides and creates the App.
func setup(flags *globalFlags) (*App, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
	} else {
		cfg, err = config.NewLoader(slog.Default()).Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.language != "" {
		cfg.Registry.DefaultLanguage = flags.language
	}
	cfg.Registry.Files = append(cfg.Registry.Files, flags.registry...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	app, err := NewApp(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, logger, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printPipeline(w io.Writer, p *pipeline.Pipeline) error {
	summary := p.Summary()
	fmt.Fprintf(w, "Pipeline %s\nRef:  %s\nKeys: %s\n\n", p.ID, p.Ref, strings.Join(p.Keys, ", "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOMPONENT\tINPUTS\tOUTPUTS\tSTORAGE REF\tINJECTED")
	for i, c := range summary.Components {
		injected := ""
		if c.Injected {
			injected = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, c.Name,
			strings.Join(c.InputColumns, ","),
			strings.Join(c.OutputColumns, ","),
			c.StorageRef, injected)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dumpConfig() *spew.ConfigState {
	return &spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
}

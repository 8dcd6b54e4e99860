package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivalscan/rivalscan/internal/config"
	"github.com/rivalscan/rivalscan/internal/event"
	"github.com/rivalscan/rivalscan/internal/llm"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/rivalscan/rivalscan/internal/pipeline"
	"github.com/rivalscan/rivalscan/internal/search"
	"github.com/rivalscan/rivalscan/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [description]",
	Short: "Run a competitor analysis for a startup idea",
	Long: `Run the four-stage competitor analysis for a startup idea.

The stages run in order, each building on the output of the ones before
it: market research finds competitors, feature analysis compares them,
differentiation suggests positioning, and the final stage proposes a
go-to-market plan. The finished report is written as markdown.

A Groq API key is required (model.api_key or GROQ_API_KEY). A Google
Programmable Search key and engine ID (search.api_key / GOOGLE_API_KEY,
search.engine_id / GOOGLE_CSE_ID) are optional; without them the research
stage runs on model knowledge alone and the report says so.

Examples:
  # Analyze an idea given as an argument
  rivalscan analyze "a Notion-like tool for video creators"

  # Prompt for the description interactively
  rivalscan analyze

  # Write the report somewhere specific
  rivalscan analyze -o reports/videotool.md "a Notion-like tool for video creators"

  # Plain line-per-event progress instead of the live checklist
  rivalscan analyze --plain "a Notion-like tool for video creators"`,
	Args: cobra.ArbitraryArgs,
	RunE: runAnalyze,
}

var (
	analyzeOutput     string
	analyzeModel      string
	analyzeMaxResults int
	analyzeMaxTokens  int
	analyzePlain      bool
	analyzeQuiet      bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "report file path (default \"competitor_analysis.md\")")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "model name for all stages")
	analyzeCmd.Flags().IntVar(&analyzeMaxResults, "max-results", 0, "search results per query (1-10)")
	analyzeCmd.Flags().IntVar(&analyzeMaxTokens, "max-tokens", 0, "completion token limit per stage")
	analyzeCmd.Flags().BoolVar(&analyzePlain, "plain", false, "print plain progress lines instead of the live checklist")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "suppress progress output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	applyAnalyzeFlags(cmd, cfg)

	description, err := collectDescription(args)
	if err != nil {
		return err
	}

	if cfg.Model.APIKey == "" {
		return fmt.Errorf("no Groq API key configured: set model.api_key or the GROQ_API_KEY environment variable")
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	provider, err := buildSearchProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	model, err := llm.NewGroqClient(cfg.Model.APIKey,
		llm.WithModel(cfg.Model.Name),
		llm.WithTemperature(cfg.Model.Temperature),
		llm.WithTimeout(cfg.Model.Timeout()))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	bus := event.NewBus()
	p, err := pipeline.NewPipeline(pipeline.PipelineConfig{
		LLM:    model,
		Search: provider,
		Bus:    bus,
	},
		pipeline.WithLogger(logger.WithComponent("pipeline")),
		pipeline.WithModelName(cfg.Model.Name),
		pipeline.WithMaxResults(cfg.Search.MaxResults),
		pipeline.WithMaxTokens(cfg.Model.MaxTokens),
		pipeline.WithMaxPromptChars(cfg.Pipeline.MaxPromptChars))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	report, runErr := runPipeline(cmd, p, bus, description, cfg)

	// A failed run still writes whatever finished, so a dead network or an
	// exhausted quota does not discard the earlier stages. A run that
	// produced nothing writes nothing, leaving any previous report intact.
	if report != nil && len(report.Outputs) > 0 {
		if err := writeReport(report, cfg.Report.OutputFile); err != nil {
			if runErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return runErr
			}
			return err
		}
		printOutcome(cmd, report, cfg.Report.OutputFile)
	}

	return runErr
}

// runPipeline executes the run behind the selected progress surface. The
// live checklist needs the pipeline on a separate goroutine because the
// Bubble Tea program owns the calling one; plain and quiet modes run it
// directly since the bus dispatches synchronously.
func runPipeline(cmd *cobra.Command, p *pipeline.Pipeline, bus *event.Bus, description string, cfg *config.Config) (*pipeline.Report, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !useChecklist(cfg) {
		if !analyzeQuiet {
			printer := newPlainPrinter(cmd.OutOrStdout())
			subID := bus.SubscribeAll(printer.handle)
			defer bus.Unsubscribe(subID)
		}
		return p.Run(ctx, description)
	}

	type runResult struct {
		report *pipeline.Report
		err    error
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.New(bus, description)
	resultCh := make(chan runResult, 1)
	go func() {
		report, err := p.Run(runCtx, description)
		resultCh <- runResult{report: report, err: err}
	}()

	if err := app.Run(); err != nil {
		cancel()
		res := <-resultCh
		if res.err != nil {
			return res.report, res.err
		}
		return res.report, fmt.Errorf("progress display error: %w", err)
	}

	// Quitting the checklist early abandons the run.
	cancel()
	res := <-resultCh
	return res.report, res.err
}

// useChecklist reports whether the live checklist should render. It needs a
// terminal on stdout and loses to both --plain and --quiet.
func useChecklist(cfg *config.Config) bool {
	if analyzeQuiet || cfg.TUI.Plain {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// applyAnalyzeFlags overlays explicitly set flags onto the loaded config,
// so precedence is flag > config file > env > default.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Report.OutputFile = analyzeOutput
	}
	if cmd.Flags().Changed("model") {
		cfg.Model.Name = analyzeModel
	}
	if cmd.Flags().Changed("max-results") {
		cfg.Search.MaxResults = analyzeMaxResults
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.Model.MaxTokens = analyzeMaxTokens
	}
	if cmd.Flags().Changed("plain") {
		cfg.TUI.Plain = analyzePlain
	}
	if viper.GetBool("verbose") {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = logging.LevelDebug
	}
}

// collectDescription takes the startup description from the arguments, or
// prompts for it when none were given.
func collectDescription(args []string) (string, error) {
	if len(args) > 0 {
		description := strings.TrimSpace(strings.Join(args, " "))
		if description == "" {
			return "", fmt.Errorf("startup description cannot be empty")
		}
		return description, nil
	}
	return promptDescription()
}

func promptDescription() (string, error) {
	fmt.Println("\nCompetitor Analysis")
	fmt.Println("===================")
	fmt.Println("Describe the startup idea to analyze.")
	fmt.Println("e.g., a Notion-like tool for video creators to organize clips and scripts")
	fmt.Println()
	fmt.Print("Description: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("startup description cannot be empty")
	}

	return input, nil
}

func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLoggerWithRotation(cfg.Logging.ResolveLogFile(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// buildSearchProvider returns nil when search credentials are missing; the
// pipeline then degrades the research stage instead of failing the run.
func buildSearchProvider(cfg *config.Config) (search.Provider, error) {
	if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
		return nil, nil
	}
	client, err := search.NewGoogleClient(cfg.Search.APIKey, cfg.Search.EngineID,
		search.WithTimeout(cfg.Search.Timeout()))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// writeReport renders the report to the output path, creating parent
// directories as needed.
func writeReport(report *pipeline.Report, path string) error {
	if path == "" {
		path = pipeline.DefaultReportFile
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func printOutcome(cmd *cobra.Command, report *pipeline.Report, path string) {
	out := cmd.OutOrStdout()
	if path == "" {
		path = pipeline.DefaultReportFile
	}

	switch {
	case !report.Complete():
		fmt.Fprintf(out, "Partial report written to %s (%d of %d stages)\n",
			path, len(report.Outputs), len(pipeline.StageNames()))
	case report.Degraded:
		fmt.Fprintf(out, "Report written to %s (web search was unavailable)\n", path)
	default:
		fmt.Fprintf(out, "Report written to %s\n", path)
	}
}

// plainPrinter writes one line per bus event, for --plain mode and
// non-terminal stdout (CI jobs, piped output).
type plainPrinter struct {
	out    io.Writer
	titles map[string]string
}

func newPlainPrinter(out io.Writer) *plainPrinter {
	titles := make(map[string]string)
	for _, sd := range pipeline.Stages() {
		titles[sd.Stage.String()] = sd.Title
	}
	return &plainPrinter{out: out, titles: titles}
}

func (p *plainPrinter) title(stage string) string {
	if t, ok := p.titles[stage]; ok {
		return t
	}
	return stage
}

func (p *plainPrinter) handle(ev event.Event) {
	switch e := ev.(type) {
	case event.RunStartedEvent:
		fmt.Fprintf(p.out, "Analyzing %q (run %s, %d stages)\n", e.Description, e.RunID, len(e.Stages))
	case event.StageStartedEvent:
		fmt.Fprintf(p.out, "[%d/%d] %s...\n", e.Index+1, e.Total, p.title(e.Stage))
	case event.SearchDegradedEvent:
		fmt.Fprintf(p.out, "      search unavailable (%s), continuing on model knowledge\n", e.Reason)
	case event.StageCompletedEvent:
		line := fmt.Sprintf("[%d/%d] %s done in %.1fs", e.Index+1, e.Total, p.title(e.Stage), e.Duration.Seconds())
		if e.ResultCount > 0 {
			line += fmt.Sprintf(" (%d search results)", e.ResultCount)
		}
		fmt.Fprintln(p.out, line)
	case event.RunCompletedEvent:
		fmt.Fprintf(p.out, "Analysis complete in %.1fs\n", e.Duration.Seconds())
	case event.RunFailedEvent:
		fmt.Fprintf(p.out, "Analysis failed at %s: %s\n", p.title(e.FailedStage), e.Error)
	}
}

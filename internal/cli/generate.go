package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archgen/archgen/pkg/cache"
	"github.com/archgen/archgen/pkg/pipeline"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/theme"
	"github.com/archgen/archgen/pkg/validate"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	goal      string   // free-form goal text, feeds title and validation
	mode      string   // layout mode: swimlane or flowchart
	formats   []string // artifacts to produce
	output    string   // output directory
	themeFile string   // TOML theme override
	cacheDir  string   // artifact cache location
	noCache   bool     // disable the artifact cache
	refresh   bool     // bypass cache reads for this run
}

// newGenerateCmd creates the generate command: raw plan text in, diagram
// artifacts out.
func newGenerateCmd() *cobra.Command {
	var formatsStr string
	opts := generateOpts{
		mode:   string(pipeline.DefaultMode),
		output: ".",
	}

	cmd := &cobra.Command{
		Use:   "generate [plan-file]",
		Short: "Compile an architecture plan into diagram artifacts",
		Long: `Generate reads raw plan text (possibly fenced or partially broken JSON)
from a file or stdin, normalizes it, and writes the requested artifacts:
diagram XML, a standalone SVG, the canonical plan JSON, or Graphviz previews.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = splitList(formatsStr)
			raw, err := readInput(args)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), raw, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.goal, "goal", "g", "", "goal text the plan was generated for")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "layout mode: swimlane (default), flowchart")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): xml, svg (defaults), json, dot, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVar(&opts.themeFile, "theme", "", "TOML theme override")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", defaultCacheDir(), "artifact cache directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func runGenerate(ctx context.Context, raw string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	th := theme.Default()
	if opts.themeFile != "" {
		var err error
		if th, err = theme.Load(opts.themeFile); err != nil {
			return err
		}
	}

	c, err := openCache(opts.cacheDir, opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	runner := pipeline.NewRunner(c, logger)
	result, err := runner.Generate(ctx, raw, pipeline.Options{
		Goal:    opts.goal,
		Mode:    plan.Mode(opts.mode),
		Formats: opts.formats,
		Refresh: opts.refresh,
		Theme:   th,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return err
	}
	printSuccess("Generated %s", StyleTitle.Render(result.Plan.Title))
	printDetail("%d nodes, %d edges, attempt %s",
		result.Stats.NodeCount, result.Stats.EdgeCount, result.AttemptID)

	for format, data := range result.Artifacts {
		path := filepath.Join(opts.output, "diagram."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printReport(result.Report)
	prog.done("Pipeline finished")
	return nil
}

// printReport summarizes the validation outcome on stdout.
func printReport(r validate.Report) {
	if r.OK && len(r.Issues) == 0 {
		printSuccess("Validation passed")
		return
	}
	if r.OK {
		printWarning("Validation passed with %d warning(s)", len(r.Issues))
	} else {
		printError("Validation failed")
	}
	for _, iss := range r.Issues {
		printDetail("[%s] %s: %s", iss.Severity, iss.Check, iss.Message)
	}
}

// readInput returns the plan text from the named file, or stdin when no
// argument (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// openCache builds the artifact cache for CLI runs.
func openCache(dir string, disabled bool) (cache.Cache, error) {
	if disabled || dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// defaultCacheDir places the cache under the user cache root when known.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "archgen")
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

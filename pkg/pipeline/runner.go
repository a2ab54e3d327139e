package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/archgen/archgen/pkg/cache"
	"github.com/archgen/archgen/pkg/layout"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/render"
	"github.com/archgen/archgen/pkg/synth"
	"github.com/archgen/archgen/pkg/validate"
)

// Runner executes the generation pipeline with artifact caching.
//
// The Runner is stateless except for the cache and logger; it stores no run
// results, so multiple goroutines can share one Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// falls back to the package default.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Generate runs the complete pipeline over raw plan text.
//
// The only hard failures are unparseable input and an invalid option set;
// everything downstream of parsing degrades instead of erroring (normalization
// repairs, rendering falls back to an error image, validation reports issues).
func (r *Runner) Generate(ctx context.Context, raw string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		AttemptID: uuid.NewString(),
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{Hits: make(map[string]bool)},
	}

	// Stage 1: Parse + normalize
	parseStart := time.Now()
	rawPlan, err := plan.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Plan = plan.Normalize(opts.Goal, rawPlan, opts.Mode, opts.Theme)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = len(result.Plan.Nodes)
	result.Stats.EdgeCount = len(result.Plan.Edges)

	planJSON, err := result.Plan.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	result.PlanHash = cache.Hash(planJSON)

	logger.Info("normalized plan",
		"attempt", result.AttemptID,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout + synthesis
	layoutStart := time.Now()
	l := layout.ForMode(opts.Mode).Build(result.Plan)
	doc := synth.Build(result.Plan, l, opts.Theme)
	result.Diagram, err = doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	logger.Info("synthesized diagram",
		"attempt", result.AttemptID,
		"shapes", len(doc.Shapes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render requested formats
	renderStart := time.Now()
	for _, format := range opts.Formats {
		data, hit, err := r.renderFormat(ctx, format, result, planJSON, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		result.CacheInfo.Hits[format] = hit
	}
	result.Stats.RenderTime = time.Since(renderStart)

	// Stage 4: Validate
	validateStart := time.Now()
	result.Report = validate.Check(result.Diagram, opts.Goal)
	result.Stats.ValidateTime = time.Since(validateStart)

	logger.Info("generated diagram",
		"attempt", result.AttemptID,
		"formats", opts.Formats,
		"valid", result.Report.OK,
		"issues", len(result.Report.Issues),
		"duration", result.Stats.RenderTime+result.Stats.ValidateTime)

	return result, nil
}

// renderFormat produces one artifact, consulting the cache first. XML and
// JSON are byproducts of earlier stages and skip the cache entirely.
func (r *Runner) renderFormat(ctx context.Context, format string, result *Result, planJSON []byte, opts Options) ([]byte, bool, error) {
	switch format {
	case FormatXML:
		return result.Diagram, false, nil
	case FormatJSON:
		return planJSON, false, nil
	}

	key := cache.ArtifactKey(opts.Goal, result.PlanHash, string(opts.Mode), format)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	var data []byte
	var err error
	switch format {
	case FormatSVG:
		data = render.SVG(result.Diagram)
	case FormatDOT:
		data = []byte(render.ToDOT(result.Plan, opts.Theme))
	case FormatPNG:
		data, err = render.PreviewPNG(ctx, render.ToDOT(result.Plan, opts.Theme))
		if err != nil {
			return nil, false, err
		}
	default:
		return nil, false, fmt.Errorf("unsupported format %q", format)
	}

	if err := r.Cache.Set(ctx, key, data, DefaultTTL); err != nil {
		r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
	}
	return data, false, nil
}

// Validate runs the local checks against already-serialized diagram XML.
func (r *Runner) Validate(diagram []byte, goal string) validate.Report {
	return validate.Check(diagram, goal)
}

// Render rasterizes already-serialized diagram XML to SVG.
func (r *Runner) Render(diagram []byte) []byte {
	return render.SVG(diagram)
}

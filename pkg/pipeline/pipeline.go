// Package pipeline provides the core diagram generation pipeline.
//
// This package implements the complete parse → normalize → layout →
// synthesize → render → validate chain used by both the CLI and the HTTP
// server. Centralizing it keeps behavior identical across entry points.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Goal:    "event driven order platform",
//	    Mode:    plan.ModeSwimlane,
//	    Formats: []string{"xml", "svg"},
//	}
//	result, err := runner.Generate(ctx, rawPlan, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/archgen/archgen/pkg/errors"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/theme"
	"github.com/archgen/archgen/pkg/validate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultMode is the layout mode used when none is requested.
const DefaultMode = plan.ModeSwimlane

// DefaultTTL is how long cached artifacts stay valid.
const DefaultTTL = 24 * time.Hour

// Format constants for output formats.
const (
	FormatXML  = "xml"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatXML:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: xml, svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a layout mode is valid.
func ValidateMode(mode plan.Mode) error {
	if !mode.Valid() {
		return apperrors.New(apperrors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: swimlane, flowchart)", mode)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one generation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Goal is the free-form description the plan was generated for. It feeds
	// title derivation, enrichment, and goal-keyword validation.
	Goal string `json:"goal"`

	// Mode selects the normalization and layout policy.
	Mode plan.Mode `json:"mode,omitempty"`

	// Formats lists the artifacts to produce.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the artifact cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Theme  *theme.Theme `json:"-"`
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. The method is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperrors.ValidateGoal(o.Goal); err != nil {
		return err
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatXML, FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Theme == nil {
		o.Theme = theme.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of one generation run.
type Result struct {
	// AttemptID uniquely identifies this run in logs and API responses.
	AttemptID string

	// Plan is the canonical normalized plan.
	Plan plan.Plan

	// PlanHash is the content hash of the canonical plan.
	PlanHash string

	// Diagram is the serialized document XML. Always produced, regardless of
	// the requested formats.
	Diagram []byte

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Report is the local validation outcome for the diagram.
	Report validate.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
	ValidateTime time.Duration
}

// CacheInfo tracks cache hits per rendered format.
type CacheInfo struct {
	Hits map[string]bool
}

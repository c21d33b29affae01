// Package pipeline turns known characters into rendered card trees.
//
// The pipeline has three stages, each usable on its own:
//
//  1. Load: read characters from a [store.Repository] and resolve their
//     notes into display cards
//  2. Layout: bucket the cards into tiers and compute geometry
//  3. Render: draw the layout as SVG, JSON, PDF, DOT or a Graphviz
//     node-link SVG
//
// Layouts and artifacts are cached by content hash, so an unchanged tree
// re-renders from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, repo, notesStore, pipeline.Options{
//	    Width:   1200,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hanzitree/pkg/cache"
	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1200.0

	// MaxWidth bounds the viewport width accepted from callers.
	MaxWidth = 20000.0

	// DefaultStyle is the default visual style.
	DefaultStyle = "flipcard"
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// ContentTypes maps each format to its HTTP content type.
var ContentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatJSON:     "application/json",
	FormatPDF:      "application/pdf",
	FormatDOT:      "text/vnd.graphviz",
	FormatNodelink: "image/svg+xml",
}

// Extensions maps each format to a file extension.
var Extensions = map[string]string{
	FormatSVG:      ".svg",
	FormatJSON:     ".json",
	FormatPDF:      ".pdf",
	FormatDOT:      ".dot",
	FormatNodelink: ".nodelink.svg",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Layout options
	Width      float64 `json:"width,omitempty"`
	Capacities []int   `json:"capacities,omitempty"`
	Overflow   int     `json:"overflow,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	ShowPinyin  bool     `json:"show_pinyin,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // pinyin and definition in node-link labels
	FontPath    string   `json:"-"`                  // TTF for CJK glyphs in PDFs
	Refresh     bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed card tree.
	Layout tree.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CardCount  int
	TierCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, pdf, dot, nodelink)", format)
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

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	if _, ok := styles.Lookup(style); !ok {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate sets defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if math.IsNaN(o.Width) || o.Width < 0 || o.Width > MaxWidth {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid width: %v (must be between 0 and %v)", o.Width, MaxWidth)
	}
	if o.Overflow < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "overflow must not be negative")
	}
	for _, c := range o.Capacities {
		if c <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "tier capacities must be positive")
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Schedule returns the capacity schedule, defaulting each unset part.
func (o *Options) Schedule() tree.Schedule {
	s := tree.DefaultSchedule()
	if len(o.Capacities) > 0 {
		s.Capacities = slices.Clone(o.Capacities)
	}
	if o.Overflow > 0 {
		s.Overflow = o.Overflow
	}
	return s
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.Schedule()
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Capacities: s.Capacities,
		Overflow:   s.Overflow,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Style, k.ShowPinyin = o.Style, o.ShowPinyin
		if o.Interactive {
			k.Style += "+interactive"
		}
	case FormatJSON:
		k.Style = o.Style
	case FormatPDF:
		k.ShowPinyin = o.ShowPinyin
		if o.FontPath != "" {
			k.Style = "font:" + o.FontPath
		}
	case FormatDOT, FormatNodelink:
		k.ShowPinyin = o.Detailed
	}
	return k
}

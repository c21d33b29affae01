package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/client"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
)

// renderFlags are the render options shared by render and layout.
type renderFlags struct {
	formats     string
	width       float64
	style       string
	pinyin      bool
	interactive bool
	detailed    bool
	fontPath    string
	refresh     bool
}

func (f *renderFlags) register(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", defaultFormat, "output format(s): svg, json, pdf, dot, nodelink (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width in pixels")
	cmd.Flags().StringVar(&f.style, "style", pipeline.DefaultStyle, "card style: flipcard, simple")
	cmd.Flags().BoolVar(&f.pinyin, "pinyin", false, "print pinyin under each character")
	cmd.Flags().BoolVar(&f.interactive, "interactive", false, "click cards to flip them (svg)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "pinyin and definition in node labels (nodelink, dot)")
	cmd.Flags().StringVar(&f.fontPath, "font", "", "TrueType font with CJK glyphs (pdf)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached layouts and artifacts")
}

// options layers the flags the user set over the configured defaults.
func (f *renderFlags) options(cmd *cobra.Command, base pipeline.Options) (pipeline.Options, error) {
	opts := base
	changed := cmd.Flags().Changed

	opts.Formats = pipeline.ParseFormats(f.formats)
	if changed("width") {
		opts.Width = f.width
	}
	if changed("style") {
		opts.Style = f.style
	}
	if changed("pinyin") {
		opts.ShowPinyin = f.pinyin
	}
	if changed("font") {
		opts.FontPath = f.fontPath
	}
	opts.Interactive = f.interactive
	opts.Detailed = f.detailed
	opts.Refresh = f.refresh
	return opts, opts.Validate()
}

// renderCommand renders the known-character tree.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the known-character tree",
		Long: `Render the known-character tree to SVG, JSON, PDF, DOT or a Graphviz
node-link SVG.

By default the tree is fetched from the server's /tree endpoint. With
--local the configured storage is read directly and rendering happens in
this process, using the render cache.

With one format, -o names the file ("-" for stdout). With several, -o is a
base path and each format gets its own extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg.Render())
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			paths := outputPaths(output, appName, opts.Formats)

			if local {
				return c.renderLocal(cmd.Context(), opts, paths)
			}
			return c.renderRemote(cmd.Context(), opts, paths)
		},
	}

	flags.register(cmd, pipeline.FormatSVG)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or base path for several formats (default: hanzitree.<ext>)")
	cmd.Flags().BoolVar(&local, "local", false, "read storage directly instead of asking the server")
	return cmd
}

func (c *CLI) renderLocal(ctx context.Context, opts pipeline.Options, paths map[string]string) error {
	data, err := c.openLocal(ctx)
	if err != nil {
		return err
	}
	defer data.Close()

	runner := c.newRunner(ctx)
	defer runner.Close()

	spinner := newSpinner(ctx, "Growing tree...")
	spinner.Start()
	result, err := runner.Execute(ctx, data.repo, data.notes, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %d cards", result.Stats.CardCount)
	if err := writeArtifacts(result.Artifacts, opts.Formats, paths); err != nil {
		return err
	}
	printStats(result.Stats.CardCount, result.Stats.TierCount, result.CacheInfo.RenderHit)
	return nil
}

func (c *CLI) renderRemote(ctx context.Context, opts pipeline.Options, paths map[string]string) error {
	cl, err := c.newClient()
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Fetching tree from %s...", cl.BaseURL()))
	spinner.Start()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, f := range opts.Formats {
		data, cached, err := cl.Tree(ctx, client.TreeOptions{
			Format:      f,
			Style:       opts.Style,
			Width:       opts.Width,
			ShowPinyin:  opts.ShowPinyin,
			Interactive: opts.Interactive,
			Detailed:    opts.Detailed,
			Refresh:     opts.Refresh,
		})
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("%s: %w", f, err)
		}
		artifacts[f] = data
		allCached = allCached && cached
	}
	spinner.Stop()

	printSuccess("Rendered tree from %s", cl.BaseURL())
	if err := writeArtifacts(artifacts, opts.Formats, paths); err != nil {
		return err
	}
	if allCached {
		printDetail("%s", iconCached)
	}
	return nil
}

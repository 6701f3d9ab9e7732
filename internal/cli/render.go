package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/cache"
	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/render/nodelink"
)

// Output formats of the render command.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

var validFormats = []string{FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// renderTTL is how long rendered artifacts stay cached.
const renderTTL = 7 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file; its extension selects the format
	format   string  // explicit format, overrides the extension
	detailed bool    // show types, IDs and content in node labels
	scale    float64 // PNG scale factor
	noCache  bool    // skip the artifact cache
}

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a graph document as a Graphviz diagram",
		Long: `Render a graph document as a node-link diagram. Each node is drawn with its
input ports on the left and output ports on the right.

The format follows the output extension (.dot, .svg, .pdf, .png) unless
--format is given. PDF and PNG need rsvg-convert from librsvg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			format, err := resolveFormat(opts.output, opts.format)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], format, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <file>.svg)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types, IDs and content")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached artifact exists")
	return cmd
}

// resolveFormat picks the format from an explicit flag or the file extension.
func resolveFormat(output, explicit string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if !slices.Contains(validFormats, format) {
		return "", errs.New(errs.ErrCodeInvalidInput, "unsupported format %q (valid: %s)", format, strings.Join(validFormats, ", "))
	}
	return format, nil
}

func (c *CLI) runRender(ctx context.Context, path, format string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	ed, err := c.openEditor(path, nil)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(ed.Scene(), nodelink.Options{Detailed: opts.detailed})

	var data []byte
	if format == FormatDOT {
		data = []byte(dot)
	} else {
		ch, err := newCache(opts.noCache)
		if err != nil {
			return err
		}
		defer ch.Close()

		key := cache.ArtifactKey(dot, cache.ArtifactOpts{Format: format, Scale: opts.scale, Detailed: opts.detailed})
		data, err = renderCached(ctx, ch, key, func() ([]byte, error) {
			switch format {
			case FormatPDF:
				return nodelink.RenderPDF(ctx, dot)
			case FormatPNG:
				return nodelink.RenderPNG(ctx, dot, opts.scale)
			default:
				return nodelink.RenderSVG(ctx, dot)
			}
		})
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	prog.done("Rendered " + ed.Name())
	printSuccess("Rendered %d nodes", ed.Scene().NodeCount())
	printFile(opts.output)
	return nil
}

// renderCached returns the artifact under key, calling fn and storing its
// result on a miss. Cache failures only cost a re-render.
func renderCached(ctx context.Context, ch cache.Cache, key string, fn func() ([]byte, error)) ([]byte, error) {
	logger := loggerFromContext(ctx)
	if data, ok, err := ch.Get(ctx, key); err == nil && ok {
		logger.Debug("render cache hit", "key", key)
		return data, nil
	} else if err != nil {
		logger.Warn("render cache read failed", "err", err)
	}

	data, err := fn()
	if err != nil {
		return nil, err
	}
	if err := ch.Set(ctx, key, data, renderTTL); err != nil {
		logger.Warn("render cache write failed", "err", err)
	}
	return data, nil
}

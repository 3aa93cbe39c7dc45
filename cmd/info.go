package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var infoSource bool

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:     "info <file>",
	Aliases: []string{"i"},
	Short:   "Show details about an animation or SVG (alias: i)",
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

func init() {
	infoCmd.Flags().BoolVarP(&infoSource, "source", "s", false, "print the syntax-highlighted source")
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := sessionService.Load(getContext(), data, path); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	a := sessionService.Asset()

	title := a.Name
	if a.IsAnimated() {
		title = ui.IconFilm + " " + title
	}
	fmt.Println(ui.FormatTitle(title))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Kind", assetKindLabel(a.IsAnimated())))
	fmt.Println(ui.RenderKeyValue("Dimensions", a.DimensionsLabel()))
	fmt.Println(ui.RenderKeyValue("File size", a.SizeLabel()))
	if a.IsAnimated() {
		fmt.Println(ui.RenderKeyValue("Frames", fmt.Sprintf("%d", a.FrameCount)))
		fmt.Println(ui.RenderKeyValue("Frame rate", fmt.Sprintf("%g fps", a.FrameRate)))
		fmt.Println(ui.RenderKeyValue("Duration", a.DurationLabel()))
	}

	if infoSource {
		fmt.Println()
		fmt.Println(highlightSource(string(data), path))
	}

	return nil
}

func assetKindLabel(animated bool) string {
	if animated {
		return "Lottie animation"
	}
	return "Static SVG"
}

// highlightSource applies syntax highlighting to the raw file content
func highlightSource(content, path string) string {
	lang := "json"
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		lang = "xml"
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}

	return buf.String()
}

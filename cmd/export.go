package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/services"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var (
	exportFormat      string
	exportFrame       int
	exportScaleIndex  int
	exportCompression int
	exportAggressive  bool
	exportOut         string
	exportCopy        bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:     "export <file>",
	Aliases: []string{"x"},
	Short:   "Export a frame as SVG, PNG or JPEG (alias: x)",
	Long: `Export a single frame of a Lottie animation, or a static SVG,
as a standalone file.

Vector exports (svg) are optimized and carry the asset's intrinsic
dimensions, independent of any on-screen zoom. Raster exports (png, jpg)
render at intrinsic size times the chosen scale step.

Scale steps: 0.25x, 0.5x, 1x, 2x, 4x, 8x (selected by --scale index 1-5;
0 means 1x).`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format: svg, png or jpg (default from config)")
	exportCmd.Flags().IntVar(&exportFrame, "frame", 0, "frame to export (animations only)")
	exportCmd.Flags().IntVar(&exportScaleIndex, "scale", -1, "raster scale step index (default from config)")
	exportCmd.Flags().IntVar(&exportCompression, "compression", -1, "JPEG compression level 0-100 (default from config)")
	exportCmd.Flags().BoolVar(&exportAggressive, "aggressive", false, "aggressive SVG optimization (truncates precision)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output directory (default from config, else cwd)")
	exportCmd.Flags().BoolVarP(&exportCopy, "copy", "c", false, "copy SVG markup to the clipboard instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := sessionService.Load(getContext(), data, path); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	if a := sessionService.Asset(); a != nil && a.IsAnimated() {
		sessionService.SetFrame(exportFrame)
	}

	// Fix the composition container to the intrinsic size so the frame
	// snapshot carries no terminal-dependent transform.
	a := sessionService.Asset()
	sessionService.Viewport().Resize(
		a.Width+2*services.ContainerInset,
		a.Height+2*services.ContainerInset,
	)

	src, err := sessionService.ExportSource()
	if err != nil {
		return err
	}

	// The last used format and optimizer mode become the defaults for
	// the next run; explicit flags win.
	format := exportFormat
	if format == "" {
		format = prefStore.GetString(ports.PrefExportFormat, appConfig.DefaultExportFormat)
	}
	aggressive := exportAggressive
	if !cmd.Flags().Changed("aggressive") {
		aggressive = prefStore.GetBool(ports.PrefAggressive, appConfig.AggressiveOptimize)
	}

	var result *services.ExportResult
	switch format {
	case "svg":
		result, err = exportService.Vector(src, aggressive)
	case "png", "jpg", "jpeg":
		if format == "jpeg" {
			format = "jpg"
		}
		scale := exportScaleIndex
		if scale < 0 {
			scale = prefStore.GetInt(ports.PrefExportScaleIndex, appConfig.DefaultScaleIndex)
		}
		compression := exportCompression
		if compression < 0 {
			compression = prefStore.GetInt(ports.PrefExportCompression, appConfig.DefaultCompression)
		}
		result, err = exportService.Raster(src, services.RasterOptions{
			Format:      services.RasterFormat(format),
			ScaleIndex:  scale,
			Compression: compression,
		})
	default:
		return fmt.Errorf("unknown export format %q (want svg, png or jpg)", format)
	}
	if err != nil {
		return err
	}

	prefStore.SetString(ports.PrefExportFormat, format)
	if cmd.Flags().Changed("aggressive") {
		prefStore.SetBool(ports.PrefAggressive, exportAggressive)
	}
	if exportScaleIndex >= 0 {
		prefStore.SetInt(ports.PrefExportScaleIndex, exportScaleIndex)
	}
	if exportCompression >= 0 {
		prefStore.SetInt(ports.PrefExportCompression, exportCompression)
	}

	if exportCopy {
		if format != "svg" {
			return fmt.Errorf("--copy only supports the svg format")
		}
		if err := clipboard.WriteAll(string(result.Data)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Copied SVG markup to clipboard"))
		return nil
	}

	dir := exportOut
	if dir == "" {
		dir = exportDir()
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outPath := filepath.Join(dir, result.Filename)
	if err := os.WriteFile(outPath, result.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Println(ui.FormatExport("Exported " + outPath))
	return nil
}

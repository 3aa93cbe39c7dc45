package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/internal/adapters/engine"
	"github.com/CarloBu/lottie-svg-toolbox/internal/adapters/optimizer"
	"github.com/CarloBu/lottie-svg-toolbox/internal/adapters/prefs"
	"github.com/CarloBu/lottie-svg-toolbox/internal/adapters/raster"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/services"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/appdir"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/config"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var (
	// Global app directories
	appDirs *appdir.Dirs

	// User-editable configuration
	appConfig *config.Config

	// Services
	sessionService *services.SessionService
	exportService  *services.ExportService

	// Adapters
	prefStore     *prefs.FileStore
	engineFactory *engine.PreviewFactory
	svgOptimizer  *optimizer.SVGOptimizer
	svgRasterizer *raster.OkRasterizer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lsvg",
	Short: "lsvg - A terminal Lottie & SVG viewer",
	Long: ui.StyleTitle.Render("lsvg") + " - Lottie & SVG Toolbox\n\n" +
		"Preview Lottie animations and SVG documents in the terminal,\n" +
		"scrub and zoom interactively, and export clean vector or raster files.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	dirs, err := appdir.New()
	if err != nil {
		return fmt.Errorf("failed to resolve application directories: %w", err)
	}
	appDirs = dirs

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	// State directory is best-effort; the store degrades to memory
	_ = appDirs.Initialize()
	prefStore = prefs.NewFileStore(appDirs.StatePath)
	if !prefStore.Available() {
		fmt.Fprintln(os.Stderr, ui.FormatWarning(
			fmt.Sprintf("%v; settings last for this run only", domain.ErrStorageUnavailable)))
	}

	// Initialize adapters
	engineFactory = engine.NewPreviewFactory()
	svgOptimizer = optimizer.NewSVGOptimizer()
	svgRasterizer = raster.NewOkRasterizer()

	// Initialize services
	sessionService = services.NewSessionService(engineFactory, prefStore)
	sessionService.SetRecentLimit(appConfig.RecentMax)
	exportService = services.NewExportService(svgOptimizer, svgRasterizer)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}

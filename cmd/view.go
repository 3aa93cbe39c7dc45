package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/ports"
	"github.com/CarloBu/lottie-svg-toolbox/internal/core/services"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/termimg"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var viewWatch bool

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:     "view <file>",
	Aliases: []string{"v", "open"},
	Short:   "Preview a Lottie animation or SVG in the terminal (alias: v)",
	Long: `Open a full-screen interactive preview of a Lottie (.json, .lottie)
animation or a static SVG document.

Keyboard Shortcuts:
  Playback:
    Space       Play / pause
    ←/→         Step one frame
    Home/End    Jump to first / last frame
    l           Toggle looping

  Viewport:
    f           Fit to window
    + / -       Zoom in / out
    0           Reset pan (keep zoom)
    Mouse wheel Zoom around center
    Drag        Pan

  Overlays:
    o           Toggle frame outline
    i           Ignore layer opacity
    b           Cycle preview background

  Export:
    e           Export current frame as SVG
    p           Export current frame as PNG
    j           Export current frame as JPEG

  General:
    d           Toggle details panel
    ?           Show help
    q           Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload the preview when the file changes on disk")
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := sessionService.Load(getContext(), data, path); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	m := newViewModel(path)

	if viewWatch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		m.watcher = watcher
		defer watcher.Close()
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(), // wheel zoom and drag panning
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}

	return nil
}

// backgroundChoices is the cycle order for the 'b' key
var backgroundChoices = []string{"dark", "light", "checker", "custom"}

type viewModel struct {
	session *services.SessionService
	export  *services.ExportService

	path    string
	watcher *fsnotify.Watcher

	width  int
	height int
	ready  bool

	background string
	details    bool
	showHelp   bool

	timeline progress.Model
	help     help.Model
	keys     viewKeyMap

	// Mouse drag state
	dragging     bool
	dragX, dragY int
	lastClick    time.Time
	lastClickX   int
	lastClickY   int

	frame string // rendered preview cells

	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time

	tick time.Duration
}

type viewKeyMap struct {
	PlayPause  key.Binding
	StepBack   key.Binding
	StepFwd    key.Binding
	First      key.Binding
	Last       key.Binding
	Loop       key.Binding
	Fit        key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ResetPan   key.Binding
	Outline    key.Binding
	Opacity    key.Binding
	Background key.Binding
	ExportSVG  key.Binding
	ExportPNG  key.Binding
	ExportJPG  key.Binding
	Details    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.StepBack, k.StepFwd, k.Fit, k.ExportSVG, k.Help, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.StepBack, k.StepFwd, k.First, k.Last, k.Loop},
		{k.Fit, k.ZoomIn, k.ZoomOut, k.ResetPan},
		{k.Outline, k.Opacity, k.Background, k.Details},
		{k.ExportSVG, k.ExportPNG, k.ExportJPG, k.Help, k.Quit},
	}
}

var viewKeys = viewKeyMap{
	PlayPause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
	StepBack: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous frame"),
	),
	StepFwd: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next frame"),
	),
	First: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "first frame"),
	),
	Last: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "last frame"),
	),
	Loop: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "toggle loop"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit to window"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	ResetPan: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset pan"),
	),
	Outline: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "frame outline"),
	),
	Opacity: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "ignore opacity"),
	),
	Background: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "background"),
	),
	ExportSVG: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export SVG"),
	),
	ExportPNG: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "export PNG"),
	),
	ExportJPG: key.NewBinding(
		key.WithKeys("j"),
		key.WithHelp("j", "export JPEG"),
	),
	Details: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "details"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func newViewModel(path string) *viewModel {
	fps := appConfig.FPSCap
	if fps < 1 {
		fps = 60
	}

	return &viewModel{
		session:    sessionService,
		export:     exportService,
		path:       path,
		background: prefStore.GetString(ports.PrefBackground, appConfig.DefaultBackground),
		details:    !prefStore.GetBool(ports.PrefDetailsCollapsed, false),
		timeline:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:       help.New(),
		keys:       viewKeys,
		tick:       time.Second / time.Duration(fps),
	}
}

// Messages

type tickMsg time.Time

type fileChangedMsg struct{}

type viewStatusMsg struct {
	message string
	style   lipgloss.Style
}

type clearStatusMsg struct{}

func (m *viewModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchCmd blocks on the fsnotify channel and debounces rapid write
// bursts into a single reload.
func (m *viewModel) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					// Editors often emit several events per save
					deadline := time.After(debounce)
				drain:
					for {
						select {
						case <-m.watcher.Events:
						case <-deadline:
							break drain
						}
					}
					return fileChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m *viewModel) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.watchCmd())
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.timeline.Width = msg.Width - 20
		m.ready = true
		cw, ch := m.containerSize()
		m.session.Viewport().Resize(cw, ch)
		m.renderFrame()
		return m, nil

	case tickMsg:
		if m.session.IsPlaying() {
			m.session.Tick(m.tick)
			m.renderFrame()
		}
		return m, m.tickCmd()

	case fileChangedMsg:
		return m, tea.Batch(m.reloadFile(), m.watchCmd())

	case viewStatusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })

	case clearStatusMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *viewModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.session.TogglePlay()

	case key.Matches(msg, m.keys.StepBack):
		m.session.Pause()
		m.session.StepFrame(-1)
		m.renderFrame()

	case key.Matches(msg, m.keys.StepFwd):
		m.session.Pause()
		m.session.StepFrame(1)
		m.renderFrame()

	case key.Matches(msg, m.keys.First):
		m.session.Pause()
		m.session.SetFrame(0)
		m.renderFrame()

	case key.Matches(msg, m.keys.Last):
		if a := m.session.Asset(); a != nil && a.IsAnimated() {
			m.session.Pause()
			m.session.SetFrame(a.LastFrame())
			m.renderFrame()
		}

	case key.Matches(msg, m.keys.Loop):
		m.session.SetLoop(!m.session.Loop())

	case key.Matches(msg, m.keys.Fit):
		m.session.Viewport().SetMode(services.ZoomFit)
		m.renderFrame()

	case key.Matches(msg, m.keys.ZoomIn):
		m.session.Viewport().WheelZoom(1)
		m.renderFrame()

	case key.Matches(msg, m.keys.ZoomOut):
		m.session.Viewport().WheelZoom(-1)
		m.renderFrame()

	case key.Matches(msg, m.keys.ResetPan):
		m.session.Viewport().ResetPan()
		m.renderFrame()

	case key.Matches(msg, m.keys.Outline):
		m.session.SetShowOutline(!m.session.ShowOutline())
		m.renderFrame()

	case key.Matches(msg, m.keys.Opacity):
		m.session.SetIgnoreOpacity(!m.session.IgnoreOpacity())
		m.renderFrame()

	case key.Matches(msg, m.keys.Background):
		m.cycleBackground()
		m.renderFrame()

	case key.Matches(msg, m.keys.ExportSVG):
		return m, m.exportCurrent("svg")

	case key.Matches(msg, m.keys.ExportPNG):
		return m, m.exportCurrent("png")

	case key.Matches(msg, m.keys.ExportJPG):
		return m, m.exportCurrent("jpg")

	case key.Matches(msg, m.keys.Details):
		m.details = !m.details
		prefStore.SetBool(ports.PrefDetailsCollapsed, !m.details)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}

	return m, nil
}

func (m *viewModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.inPreview(msg.Y) {
			m.session.Viewport().WheelZoom(1)
			m.renderFrame()
		}

	case tea.MouseButtonWheelDown:
		if m.inPreview(msg.Y) {
			m.session.Viewport().WheelZoom(-1)
			m.renderFrame()
		}

	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			if !m.inPreview(msg.Y) {
				break
			}
			// Double-click resets pan, keeping zoom mode and percent
			if time.Since(m.lastClick) < 400*time.Millisecond &&
				abs(msg.X-m.lastClickX) <= 1 && abs(msg.Y-m.lastClickY) <= 1 {
				m.session.Viewport().ResetPan()
				m.renderFrame()
			}
			m.lastClick = time.Now()
			m.lastClickX, m.lastClickY = msg.X, msg.Y
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y

		case tea.MouseActionMotion:
			if m.dragging {
				dx, dy := msg.X-m.dragX, msg.Y-m.dragY
				if dx != 0 || dy != 0 {
					// A terminal cell is twice as tall as it is wide
					m.session.Viewport().PanBy(float64(dx), float64(dy*2))
					m.dragX, m.dragY = msg.X, msg.Y
					m.renderFrame()
				}
			}

		case tea.MouseActionRelease:
			m.dragging = false
		}
	}

	return m, nil
}

// inPreview reports whether a terminal row falls inside the render area,
// between the header and the timeline/control rows.
func (m *viewModel) inPreview(y int) bool {
	_, ch := m.containerSize()
	return y >= 1 && y < 1+int(ch)/2
}

// containerSize maps the terminal cell grid to the viewport's logical
// pixel coordinates (one cell = 1x2 pixels, minus chrome rows).
func (m *viewModel) containerSize() (float64, float64) {
	cols := m.width - 2
	rows := m.height - m.chromeRows()
	if cols < 10 {
		cols = 10
	}
	if rows < 4 {
		rows = 4
	}
	return float64(cols), float64(rows * 2)
}

func (m *viewModel) chromeRows() int {
	rows := 6 // header, timeline, status, help hint, padding
	if m.details {
		rows += 4
	}
	return rows
}

// renderFrame rasterizes the composed preview document into terminal
// cells. Failures leave the previous frame on screen.
func (m *viewModel) renderFrame() {
	if !m.ready || !m.session.Surface().Visible() {
		m.frame = ""
		return
	}

	cw, ch := m.containerSize()
	markup, err := m.session.ComposedMarkup(cw, ch)
	if err != nil {
		return
	}

	img, err := svgRasterizer.Rasterize(markup, int(cw), int(ch))
	if err != nil {
		return
	}

	opts := termimg.Options{
		Cols: int(cw),
		Rows: int(ch) / 2,
	}
	switch m.background {
	case "light":
		opts.Background = termimg.BackgroundLight
	case "checker":
		opts.Background = termimg.BackgroundChecker
	case "custom":
		opts.Background = termimg.BackgroundCustom
		hex := prefStore.GetString(ports.PrefBackgroundColor, appConfig.CustomBackgroundColor)
		if c, err := termimg.ParseHexColor(hex); err == nil {
			opts.CustomColor = c
		}
	default:
		opts.Background = termimg.BackgroundDark
	}

	m.frame = termimg.Render(img, opts)
}

func (m *viewModel) cycleBackground() {
	next := 0
	for i, bg := range backgroundChoices {
		if bg == m.background {
			next = (i + 1) % len(backgroundChoices)
			break
		}
	}
	m.background = backgroundChoices[next]
	prefStore.SetString(ports.PrefBackground, m.background)
}

func (m *viewModel) reloadFile() tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(m.path)
		if err != nil {
			return viewStatusMsg{
				message: fmt.Sprintf("Reload failed: %v", err),
				style:   ui.StyleError,
			}
		}
		if err := m.session.Load(getContext(), data, m.path); err != nil {
			return viewStatusMsg{
				message: fmt.Sprintf("Reload rejected: %v", err),
				style:   ui.StyleWarning,
			}
		}
		m.renderFrame()
		return viewStatusMsg{
			message: "Reloaded " + filepath.Base(m.path),
			style:   ui.StyleSuccess,
		}
	}
}

func (m *viewModel) exportCurrent(format string) tea.Cmd {
	return func() tea.Msg {
		src, err := m.session.ExportSource()
		if err != nil {
			return viewStatusMsg{message: "Nothing to export", style: ui.StyleWarning}
		}

		var result *services.ExportResult
		if format == "svg" {
			aggressive := prefStore.GetBool(ports.PrefAggressive, appConfig.AggressiveOptimize)
			result, err = m.export.Vector(src, aggressive)
		} else {
			result, err = m.export.Raster(src, services.RasterOptions{
				Format:      services.RasterFormat(format),
				ScaleIndex:  prefStore.GetInt(ports.PrefExportScaleIndex, appConfig.DefaultScaleIndex),
				Compression: prefStore.GetInt(ports.PrefExportCompression, appConfig.DefaultCompression),
			})
		}
		if err != nil {
			return viewStatusMsg{
				message: fmt.Sprintf("Export failed: %v", err),
				style:   ui.StyleError,
			}
		}

		outPath := filepath.Join(exportDir(), result.Filename)
		if err := os.WriteFile(outPath, result.Data, 0644); err != nil {
			return viewStatusMsg{
				message: fmt.Sprintf("Export failed: %v", err),
				style:   ui.StyleError,
			}
		}

		return viewStatusMsg{
			message: "Exported " + outPath,
			style:   ui.StyleSuccess,
		}
	}
}

func (m *viewModel) View() string {
	if !m.ready {
		return "\n  Loading preview..."
	}
	if m.showHelp {
		return m.viewHelp()
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	if m.frame == "" {
		placeholder := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(2, 4).
			Render("Rendering...")
		s.WriteString(placeholder)
	} else {
		s.WriteString(m.frame)
	}
	s.WriteString("\n")

	s.WriteString(m.renderTimeline())
	s.WriteString("\n")

	if m.details {
		s.WriteString(m.renderDetails())
		s.WriteString("\n")
	}

	s.WriteString(m.renderStatus())

	return s.String()
}

func (m *viewModel) renderHeader() string {
	a := m.session.Asset()
	if a == nil {
		return ui.StyleTitle.Render("lsvg")
	}

	name := ui.StylePrimary.Render(a.Name)
	zoom := ui.StyleMuted.Render(fmt.Sprintf("%d%%", m.session.Viewport().Percent()))

	state := ui.IconPause
	if m.session.IsPlaying() {
		state = ui.IconPlay
	}
	if !a.IsAnimated() {
		state = ""
	}

	loop := ""
	if m.session.Loop() {
		loop = ui.StyleAccent.Render(" " + ui.IconLoop)
	}

	return fmt.Sprintf(" %s %s%s  %s", state, name, loop, zoom)
}

func (m *viewModel) renderTimeline() string {
	a := m.session.Asset()
	if a == nil || !a.IsAnimated() {
		return ""
	}

	pos := m.session.Position()
	ratio := 0.0
	if a.LastFrame() > 0 {
		ratio = float64(pos) / float64(a.LastFrame())
	}

	counter := ui.StyleMuted.Render(fmt.Sprintf(" %3d/%d", pos, a.LastFrame()))
	return " " + m.timeline.ViewAs(ratio) + counter
}

func (m *viewModel) renderDetails() string {
	a := m.session.Asset()
	if a == nil {
		return ""
	}

	parts := []string{
		ui.RenderKeyValue("Size", a.DimensionsLabel()),
		ui.RenderKeyValue("File", a.SizeLabel()),
	}
	if a.IsAnimated() {
		parts = append(parts,
			ui.RenderKeyValue("Frames", fmt.Sprintf("%d @ %gfps", a.FrameCount, a.FrameRate)),
			ui.RenderKeyValue("Duration", a.DurationLabel()),
		)
	}
	parts = append(parts, ui.RenderKeyValue("Background", m.background))

	return " " + strings.Join(parts, "   ")
}

func (m *viewModel) renderStatus() string {
	var status string
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		status = m.messageStyle.Render(m.message)
	} else {
		status = m.help.View(m.keys)
	}
	return " " + status
}

func (m *viewModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	s.WriteString(titleStyle.Render("lsvg Viewer - Keyboard Shortcuts"))
	s.WriteString("\n\n")
	s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Press any key to return"))
	s.WriteString("\n")

	return s.String()
}

// exportDir resolves where exports land: configured directory or the
// current working directory.
func exportDir() string {
	if appConfig.ExportDir != "" {
		if err := os.MkdirAll(appConfig.ExportDir, 0755); err == nil {
			return appConfig.ExportDir
		}
	}
	return "."
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	png "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Treystu/BMSview-sub013/src/analytics"
	"github.com/Treystu/BMSview-sub013/src/chartengine"
	"github.com/Treystu/BMSview-sub013/src/config"
	"github.com/Treystu/BMSview-sub013/src/logging"
	"github.com/Treystu/BMSview-sub013/src/metrics"
	"github.com/Treystu/BMSview-sub013/src/series"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    *config.Config

	filePath string
	records  []series.SensorRecord
	engine   *chartengine.Engine

	// date-range filter, "YYYY-MM-DD" or empty for open
	fromStr string
	toStr   string

	averaging string // "Auto", "Raw", or a bucket label
	system    string

	// widgets
	chartImgCanvas    *canvas.Image
	baselineImgCanvas *canvas.Image
	overlay           *chartOverlay
	statusLabel       *widget.Label
	zoomSelect        *widget.Select

	// last render geometry, consumed by the overlay
	plotW, plotH int
	lastFrame    chartengine.Frame

	analyticsClient *analytics.Client
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var fileFlag, cfgFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to bms_records.jsonl")
	flag.StringVar(&cfgFlag, "config", "", "Directory containing bmsview.yaml")
	flag.Parse()

	cfg, err := config.Load(cfgFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.SetLogLevel(cfg.Viewer.LogLevel)

	a := app.NewWithID("com.bmsview.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("BMS History Viewer")
	w.Resize(fyne.NewSize(1100, 760))

	state := &uiState{
		app:       a,
		window:    w,
		cfg:       cfg,
		filePath:  fileFlag,
		engine:    chartengine.New(float64(cfg.Viewer.ChartWidth), float64(cfg.Viewer.ChartHeight)),
		averaging: "Auto",
		analyticsClient: analytics.NewClient(cfg.Analytics.BaseURL,
			time.Duration(cfg.Analytics.TimeoutSeconds)*time.Second),
	}
	if state.filePath == "" {
		state.filePath = cfg.Viewer.RecordsFile
	}
	applyAxesConfig(state.engine, cfg.Axes)

	buildUI(state)
	w.ShowAndRun()
}

func buildUI(state *uiState) {
	state.chartImgCanvas = canvas.NewImageFromImage(nil)
	state.chartImgCanvas.FillMode = canvas.ImageFillContain
	state.baselineImgCanvas = canvas.NewImageFromImage(nil)
	state.baselineImgCanvas.FillMode = canvas.ImageFillContain
	state.overlay = newChartOverlay(state)
	state.statusLabel = widget.NewLabel("no data")

	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	openBtn := widget.NewButton("Open…", func() { openFileDialog(state, fileLabel) })

	fromEntry := widget.NewEntry()
	fromEntry.SetPlaceHolder("from YYYY-MM-DD")
	toEntry := widget.NewEntry()
	toEntry.SetPlaceHolder("to YYYY-MM-DD")
	fromEntry.OnChanged = func(s string) { state.fromStr = s }
	toEntry.OnChanged = func(s string) { state.toStr = s }

	generateBtn := widget.NewButton("Generate", func() { generate(state) })

	avgSel := widget.NewSelect([]string{"Auto", "Raw", "5min", "15min", "60min", "240min", "1440min"}, func(s string) {
		state.averaging = s
		state.engine.SetOverride(overrideFor(s))
		savePrefs(state)
		state.redraw()
	})
	avgSel.Selected = state.averaging

	zoomSel := widget.NewSelect([]string{"100%", "200%", "500%", "1000%", "3000%", "10000%"}, func(s string) {
		if !state.engine.Ready() {
			return
		}
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return
		}
		state.engine.Viewport().SetZoomPercent(p)
		state.redraw()
	})
	zoomSel.Selected = "100%"
	state.zoomSelect = zoomSel

	resetBtn := widget.NewButton("Reset View", func() {
		if !state.engine.Ready() {
			return
		}
		state.engine.Viewport().ResetToFull()
		state.redraw()
	})

	// per-metric axis assignment
	metricSel := widget.NewSelect(metrics.Keys(), nil)
	sideSel := widget.NewSelect([]string{"Left", "Right", "Hidden"}, nil)
	applySide := func(string) {
		key := metricSel.Selected
		if key == "" || sideSel.Selected == "" {
			return
		}
		switch sideSel.Selected {
		case "Hidden":
			state.engine.Unplot(key)
		case "Right":
			if err := state.engine.SetSide(key, metrics.SideRight); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
		default:
			if err := state.engine.SetSide(key, metrics.SideLeft); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
		}
		state.redraw()
	}
	sideSel.OnChanged = applySide
	metricSel.OnChanged = func(string) {
		// reflect the current assignment for the picked metric
		key := metricSel.Selected
		side, ok := state.engine.Assignment()[key]
		switch {
		case !ok:
			sideSel.Selected = "Hidden"
		case side == metrics.SideRight:
			sideSel.Selected = "Right"
		default:
			sideSel.Selected = "Left"
		}
		sideSel.Refresh()
	}

	systemEntry := widget.NewEntry()
	systemEntry.SetPlaceHolder("system id")
	systemEntry.OnChanged = func(s string) { state.system = s }
	fetchBtn := widget.NewButton("Fetch Baseline", func() { fetchBaseline(state) })

	controls := container.NewVBox(
		container.NewHBox(openBtn, fileLabel),
		container.NewHBox(
			widget.NewLabel("Range:"), fromEntry, toEntry, generateBtn,
			widget.NewLabel("Averaging:"), avgSel,
			widget.NewLabel("Zoom:"), zoomSel, resetBtn,
		),
		container.NewHBox(
			widget.NewLabel("Metric:"), metricSel, sideSel,
			widget.NewLabel("Analytics:"), systemEntry, fetchBtn,
		),
	)

	historyTab := container.NewStack(state.chartImgCanvas, state.overlay)
	tabs := container.NewAppTabs(
		container.NewTabItem("History", historyTab),
		container.NewTabItem("Baseline", state.baselineImgCanvas),
	)

	state.window.SetContent(container.NewBorder(controls, state.statusLabel, nil, nil, tabs))
	buildMenus(state, fileLabel)
	loadPrefs(state, fileLabel, avgSel, systemEntry)

	if state.filePath != "" {
		if _, err := os.Stat(state.filePath); err == nil {
			loadAll(state, fileLabel)
		}
	}
}

// applyAxesConfig applies configured side assignments on top of the
// registry defaults. Bad keys or sides are logged and skipped.
func applyAxesConfig(engine *chartengine.Engine, axes map[string]string) {
	for key, side := range axes {
		var err error
		switch strings.ToLower(side) {
		case "hidden":
			engine.Unplot(key)
		case "right":
			err = engine.SetSide(key, metrics.SideRight)
		case "left":
			err = engine.SetSide(key, metrics.SideLeft)
		default:
			logging.Warnf("config: axes.%s: unknown side %q", key, side)
		}
		if err != nil {
			logging.Warnf("config: axes.%s: %v", key, err)
		}
	}
}

// overrideFor maps the averaging selector to an engine override. "Auto"
// disables it; "Raw" forces the unaggregated level.
func overrideFor(label string) chartengine.Override {
	switch label {
	case "", "Auto":
		return chartengine.Override{}
	case "Raw":
		return chartengine.Override{Enabled: true, BucketMinutes: 0}
	default:
		m, err := strconv.Atoi(strings.TrimSuffix(label, "min"))
		if err != nil {
			return chartengine.Override{}
		}
		return chartengine.Override{Enabled: true, BucketMinutes: m}
	}
}

func loadAll(state *uiState, fileLabel *widget.Label) {
	recs, err := loadRecords(state.filePath)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.records = recs
	if fileLabel != nil {
		fileLabel.SetText(truncatePath(state.filePath, 60))
	}
	generate(state)
}

// parseDateRange validates the two optional date entries. Empty means an
// open bound; anything non-empty must parse, a typo must not silently
// widen the filter to the full range.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	if s := strings.TrimSpace(fromStr); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("from date %q: want YYYY-MM-DD", s)
		}
		from = t
	}
	if s := strings.TrimSpace(toStr); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("to date %q: want YYYY-MM-DD", s)
		}
		// inclusive day boundary
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("date range: %q is after %q", fromStr, toStr)
	}
	return from, to, nil
}

func generate(state *uiState) {
	from, to, err := parseDateRange(state.fromStr, state.toStr)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	opts := chartengine.GenerateOptions{
		From:            from,
		To:              to,
		RatedCapacityAh: state.cfg.System.RatedCapacityAh,
	}
	if err := state.engine.Generate(state.records, opts); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.engine.SetOverride(overrideFor(state.averaging))
	state.redraw()
}

// redraw renders the engine's current frame at the window's plot size and
// swaps it into the chart canvas.
func (state *uiState) redraw() {
	if !state.engine.Ready() {
		return
	}
	var winW, winH float32 = 1100, 760
	if c := state.window.Canvas(); c != nil {
		sz := c.Size()
		if sz.Width > 0 {
			winW, winH = sz.Width, sz.Height
		}
	}
	pw, ph := plotSize(winW, winH)
	bh := state.cfg.Viewer.BrushHeight
	if bh <= 0 {
		bh = brushHeight
	}
	state.plotW, state.plotH = pw, ph
	state.lastFrame = state.engine.Frame(float64(pw), float64(ph), float64(bh))
	img := rasterFrame(state.lastFrame, pw, ph, bh)
	state.chartImgCanvas.Image = img
	state.chartImgCanvas.SetMinSize(fyne.NewSize(float32(pw), float32(ph+bh)))
	state.chartImgCanvas.Refresh()
	state.overlay.Refresh()

	vp := state.engine.Viewport()
	from, to := vp.VisibleRange()
	state.statusLabel.SetText(fmt.Sprintf("LOD %s | zoom %.1fx | %s – %s",
		series.BucketLabel(state.engine.ActiveBucket()), vp.ZoomRatio(),
		from.Format("2006-01-02 15:04"), to.Format("2006-01-02 15:04")))

	// keep the zoom selector honest after pan/brush changed the width
	if state.zoomSelect != nil {
		label := zoomOptionFor(vp.ZoomRatio(), state.zoomSelect.Options)
		if state.zoomSelect.Selected != label {
			state.zoomSelect.Selected = label
			state.zoomSelect.Refresh()
		}
	}
}

// zoomOptionFor matches the current zoom ratio to one of the selector's
// fixed options; "" blanks the select when the zoom is in between.
func zoomOptionFor(ratio float64, options []string) string {
	label := fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
	for _, o := range options {
		if o == label {
			return o
		}
	}
	return ""
}

func fetchBaseline(state *uiState) {
	if state.system == "" {
		dialog.ShowInformation("Baseline", "Enter a system id first.", state.window)
		return
	}
	timeout := time.Duration(state.cfg.Analytics.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sum, err := state.analyticsClient.FetchSummary(ctx, state.system)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	savePrefs(state)
	img := renderBaselineChart(sum, 900, 400)
	if img == nil {
		dialog.ShowInformation("Baseline", "No baseline data for this system.", state.window)
		return
	}
	state.baselineImgCanvas.Image = img
	state.baselineImgCanvas.SetMinSize(fyne.NewSize(900, 400))
	state.baselineImgCanvas.Refresh()
}

func buildMenus(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			savePrefs(state)
			loadAll(state, fileLabel)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state, fileLabel) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state, fileLabel) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state, state.chartImgCanvas, "bms_history.png") }),
		fyne.NewMenuItem("Export Baseline…", func() { exportChartPNG(state, state.baselineImgCanvas, "bms_baseline.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		addRecentFile(state, state.filePath)
		savePrefs(state)
		loadAll(state, fileLabel)
	}, state.window)
	d.Show()
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("averaging", state.averaging)
	prefs.SetString("lastSystem", state.system)
}

func loadPrefs(state *uiState, fileLabel *widget.Label, avgSel *widget.Select, systemEntry *widget.Entry) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if f := prefs.StringWithFallback("lastFile", state.filePath); f != "" {
		state.filePath = f
		if fileLabel != nil {
			fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	if avg := prefs.StringWithFallback("averaging", state.averaging); avg != "" {
		state.averaging = avg
		if avgSel != nil {
			avgSel.Selected = avg
			avgSel.Refresh()
		}
	}
	if sys := prefs.StringWithFallback("lastSystem", ""); sys != "" {
		state.system = sys
		if systemEntry != nil {
			systemEntry.SetText(sys)
		}
	}
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// Clip Browser - a graphical tool for inspecting animation clips: browse the
// range table, play or queue ranges in any mode and watch the player state.
// It reads the same config as the demo, and the last clip it opens becomes
// the demo's default clip.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/assets"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/engine/debug"
	"github.com/Faultbox/animseq/internal/engine/ui"
	"github.com/Faultbox/animseq/internal/logger"
)

func main() {
	runtime.LockOSThread()

	shotDir := flag.String("screenshots", "", "Screenshot directory (default from config)")
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dir := *shotDir
	if dir == "" {
		dir = cfg.Window.ScreenshotDir
	}
	if dir == "" {
		dir = filepath.Join(config.ConfigDir(), "screenshots")
	}

	app, err := NewApp(dir)
	if err != nil {
		logger.Error("failed to start browser", zap.Error(err))
		os.Exit(1)
	}

	if err := app.OpenClip(cfg.Animation.Clip); err != nil {
		logger.Error("cannot open clip", zap.String("clip", cfg.Animation.Clip), zap.Error(err))
	}

	app.Run()
}

var modes = []anim.Mode{anim.ModeLoop, anim.ModeSingleShot, anim.ModeContinue}

// App represents the Clip Browser application state.
type App struct {
	backend *ui.Backend
	log     *zap.Logger

	session *Session
	last    time.Time

	// UI state
	selectedRange string
	mode          anim.Mode
	statusMsg     string
	statusTime    time.Time

	// Screenshot state
	shots               *debug.Screenshots
	screenshotRequested bool // captured at the start of the next frame

	// File dialog results, delivered to the main thread
	pendingPath chan string
}

// NewApp creates the window and the ImGui context.
func NewApp(screenshotDir string) (*App, error) {
	app := &App{
		log:         logger.Named("clipbrowser"),
		mode:        anim.ModeLoop,
		shots:       debug.NewScreenshots(screenshotDir, "clipbrowser"),
		pendingPath: make(chan string, 1),
	}

	var err error
	app.backend, err = ui.NewBackend("Clip Browser", 1280, 800)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Run starts the main application loop.
func (app *App) Run() {
	app.last = time.Now()
	app.backend.Run(app.render)
}

// OpenClip replaces the current session.
func (app *App) OpenClip(ref string) error {
	s, err := OpenSession(ref)
	if err != nil {
		return err
	}
	app.session = s
	app.selectedRange = s.Player.RangeName()
	if err := config.RememberClip(ref); err != nil {
		app.log.Warn("cannot remember clip", zap.String("ref", ref), zap.Error(err))
	}
	app.backend.SetWindowTitle(fmt.Sprintf("Clip Browser - %s", s.Clip.Name))
	app.log.Info("clip opened",
		zap.String("ref", ref),
		zap.String("clip", s.Clip.Name),
		zap.Int("ranges", len(s.Ranges())),
	)
	return nil
}

// openFileDialog shows a native file dialog. The dialog blocks, so it runs
// on its own goroutine and hands the path back through pendingPath.
func (app *App) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Clip files", "yaml", "yml", "toml").
			Filter("All Files", "*").
			Title("Open Clip").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}
		select {
		case app.pendingPath <- filename:
		default:
		}
	}()
}

func (app *App) notify(msg string) {
	app.statusMsg = msg
	app.statusTime = time.Now()
}

// render is called each frame to draw the UI.
func (app *App) render() {
	now := time.Now()
	dt := now.Sub(app.last).Seconds()
	app.last = now

	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	select {
	case path := <-app.pendingPath:
		if err := app.OpenClip(path); err != nil {
			app.notify("Open failed: " + err.Error())
		}
	default:
	}

	if ui.KeyPressed(imgui.KeyF12) {
		app.screenshotRequested = true
	}
	if app.session != nil && !imgui.IsAnyItemActive() && ui.KeyPressed(imgui.KeySpace) {
		app.session.Player.TogglePlayPause()
	}

	if app.session != nil {
		app.session.Advance(dt)
	}

	// Main menu bar
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Clip...") {
				app.openFileDialog()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	workPos, workSize := ui.Viewport()

	leftPanelWidth := float32(220)
	rightPanelWidth := float32(360)
	statusBarHeight := float32(30)
	contentHeight := workSize.Y - statusBarHeight
	middleWidth := workSize.X - leftPanelWidth - rightPanelWidth

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Clips", nil, flags) {
		app.renderClipList()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+leftPanelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(middleWidth, contentHeight))
	if imgui.BeginV("Ranges", nil, flags) {
		app.renderRanges()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+leftPanelWidth+middleWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(rightPanelWidth, contentHeight))
	if imgui.BeginV("Player", nil, flags) {
		app.renderPlayer()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("Status", nil, flags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		app.renderStatusBar()
	}
	imgui.End()
}

func (app *App) renderClipList() {
	imgui.Text("Embedded:")
	for _, name := range assets.Names() {
		selected := app.session != nil && app.session.Ref == name
		if imgui.SelectableBoolV(name, selected, 0, imgui.NewVec2(0, 0)) && !selected {
			if err := app.OpenClip(name); err != nil {
				app.notify("Open failed: " + err.Error())
			}
		}
	}
	imgui.Separator()
	if imgui.ButtonV("Open File...", imgui.NewVec2(-1, 0)) {
		app.openFileDialog()
	}

	if app.session == nil {
		return
	}
	imgui.Spacing()
	tl := app.session.Player.Timeline()
	imgui.Text(fmt.Sprintf("Clip: %s", app.session.Clip.Name))
	imgui.Text(fmt.Sprintf("Duration: %.2fs", tl.Duration()))
	imgui.Text(fmt.Sprintf("Rate: %g fps", tl.FramesPerSec()))
	imgui.Text(fmt.Sprintf("Frames: %d", tl.FrameCount()))
}

func (app *App) renderRanges() {
	if app.session == nil {
		imgui.TextDisabled("No clip loaded")
		return
	}

	imgui.Text("Mode:")
	for _, m := range modes {
		imgui.SameLine()
		if imgui.SelectableBoolV(m.String(), app.mode == m, 0, imgui.NewVec2(90, 0)) {
			app.mode = m
		}
	}

	disabled := app.selectedRange == ""
	if imgui.ButtonV("Play", imgui.NewVec2(120, 0)) && !disabled {
		app.request(false)
	}
	imgui.SameLine()
	if imgui.ButtonV("Queue", imgui.NewVec2(120, 0)) && !disabled {
		app.request(true)
	}
	imgui.Separator()

	active := app.session.Player.RangeName()
	if imgui.BeginChildStrV("RangeTable", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders, 0) {
		if imgui.BeginTable("ranges", 4) {
			for _, r := range app.session.Ranges() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				label := r.Name
				if r.Name == active {
					label = "> " + label
				}
				if imgui.SelectableBoolV(label+"##"+r.Name, app.selectedRange == r.Name, 0, imgui.NewVec2(0, 0)) {
					app.selectedRange = r.Name
				}
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", r.Start))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", r.End))
				imgui.TableNextColumn()
				if r.Guarded {
					imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), fmt.Sprintf("bp %d", r.Breakpoint))
				} else {
					imgui.TextDisabled("-")
				}
			}
			imgui.EndTable()
		}
	}
	imgui.EndChild()
}

func (app *App) request(queue bool) {
	verb := "Play"
	if queue {
		verb = "Queue"
	}
	if err := app.session.Request(app.selectedRange, app.mode, queue); err != nil {
		app.notify(fmt.Sprintf("%s %s failed: %v", verb, app.selectedRange, err))
		return
	}
	app.notify(fmt.Sprintf("%s %s (%s)", verb, app.selectedRange, app.mode))
}

func (app *App) renderPlayer() {
	if app.session == nil {
		imgui.TextDisabled("No clip loaded")
		return
	}
	p := app.session.Player

	r, mode, ok := p.Active()
	if ok {
		imgui.Text(fmt.Sprintf("Range: %s (%s)", r.Name, mode))
		imgui.Text(fmt.Sprintf("Frame: %.2f  [%d, %d]", p.Frame(), r.Start, r.End))
	} else {
		imgui.TextDisabled("Nothing playing")
	}
	imgui.ProgressBarV(app.session.Progress(), imgui.NewVec2(-1, 0), "")

	state := p.State().String()
	if p.Holding() {
		state += ", holding"
	}
	imgui.Text("State: " + state)

	label := "Pause"
	if p.State() == anim.Paused {
		label = "Resume"
	}
	if imgui.ButtonV(label, imgui.NewVec2(-1, 0)) {
		p.TogglePlayPause()
	}
	imgui.Text("(Space to toggle)")

	imgui.Text("Speed:")
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##Speed", &app.session.Speed, 0.1, 3.0, "%.1fx", imgui.SliderFlagsNone)

	imgui.Separator()
	if e, ok := p.Pending(); ok {
		imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), fmt.Sprintf("Waiting for breakpoint: %s (%s)", e.Range, e.Mode))
	}
	imgui.Text("Queue:")
	queued := p.Queued()
	if len(queued) == 0 {
		imgui.TextDisabled("  empty")
	}
	for i, e := range queued {
		imgui.Text(fmt.Sprintf("  %d. %s (%s)", i+1, e.Range, e.Mode))
	}

	imgui.Separator()
	imgui.Text("Transitions:")
	if imgui.BeginChildStrV("TransitionLog", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders, imgui.WindowFlagsHorizontalScrollbar) {
		lines := app.session.Log()
		for i := len(lines) - 1; i >= 0; i-- {
			imgui.TextUnformatted(lines[i].String())
		}
	}
	imgui.EndChild()
}

func (app *App) renderStatusBar() {
	if app.statusMsg != "" && time.Since(app.statusTime) < 4*time.Second {
		imgui.Text(app.statusMsg)
		return
	}
	if app.session == nil {
		imgui.TextDisabled("File > Open Clip to load a clip file")
		return
	}
	imgui.TextDisabled(fmt.Sprintf("%s - %d ranges - F12 screenshot", app.session.Ref, len(app.session.Ranges())))
}

// captureScreenshot reads the front buffer, which holds the previous frame.
func (app *App) captureScreenshot() {
	pixels, width, height, err := app.backend.ReadFrontBuffer()
	if err != nil {
		app.notify("Screenshot failed: " + err.Error())
		return
	}

	rangeName, frame := "", 0.0
	if app.session != nil {
		rangeName, frame = app.session.Player.RangeName(), app.session.Player.Frame()
	}
	path, err := app.shots.Save(pixels, width, height, rangeName, frame)
	if err != nil {
		app.notify("Screenshot failed: " + err.Error())
		return
	}
	app.notify("Saved: " + path)
	app.log.Info("screenshot saved", zap.String("path", path))
}

// Package terminal is the interactive tcell front-end: it turns mouse and
// keyboard events into editor calls and paints the rendered canvas.
package terminal

import (
	"fmt"
	"strings"

	"erd/config"
	"erd/diagram"
	"erd/editor"
	"erd/render"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// App owns the screen for the lifetime of an interactive session.
type App struct {
	screen   tcell.Screen
	editor   *editor.Editor
	renderer *render.Renderer
	prefs    config.ViewPreferences
	logger   *zap.Logger

	canvas   *render.Canvas
	buttons  tcell.ButtonMask // buttons held at the previous mouse event
	message  string
	showHelp bool
	quit     bool
}

// New creates an App. The screen must not be initialised yet when Run is
// used; tests may initialise a simulation screen themselves and drive
// HandleEvent directly.
func New(screen tcell.Screen, ed *editor.Editor, prefs config.ViewPreferences, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		screen: screen,
		editor: ed,
		renderer: render.New(render.Options{
			CellWidth:      prefs.CellWidth,
			CellHeight:     prefs.CellHeight,
			Theme:          render.ThemeByName(prefs.Theme),
			HideAttributes: !prefs.ShowAttributes,
		}),
		prefs:  prefs,
		logger: logger,
	}
}

// Run initialises the screen and processes events until the user quits.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.EnableMouse()
	a.screen.HideCursor()
	a.logger.Info("terminal session started")

	for !a.quit {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		a.HandleEvent(ev)
	}
	a.logger.Info("terminal session ended")
	return nil
}

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool {
	return a.quit
}

// HandleEvent dispatches one tcell event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
}

// canvasHeight is the number of rows available to the diagram.
func (a *App) canvasHeight() int {
	_, h := a.screen.Size()
	if a.prefs.ShowStatusBar {
		h--
	}
	return max(h, 0)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if y >= a.canvasHeight() {
		return
	}
	pos := a.renderer.CellToScreen(x, y)
	btn := ev.Buttons()

	switch {
	case btn&tcell.WheelUp != 0:
		a.editor.View().ZoomAt(pos, a.editor.View().Limits().WheelIn)
		return
	case btn&tcell.WheelDown != 0:
		a.editor.View().ZoomAt(pos, a.editor.View().Limits().WheelOut)
		return
	}

	prev := a.buttons
	a.buttons = btn & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)

	pressed := a.buttons &^ prev
	switch {
	case pressed&tcell.ButtonPrimary != 0:
		a.editor.PointerDown(pos, editor.ButtonPrimary)
	case pressed&tcell.ButtonMiddle != 0:
		a.editor.PointerDown(pos, editor.ButtonMiddle)
	case pressed&tcell.ButtonSecondary != 0:
		a.editor.PointerDown(pos, editor.ButtonSecondary)
	case a.buttons != 0:
		a.editor.PointerMove(pos)
	case prev != 0:
		a.editor.PointerUp(pos)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	a.message = ""
	if a.showHelp {
		a.showHelp = false
		if ev.Key() != tcell.KeyRune || ev.Rune() != 'q' {
			return
		}
	}

	step := a.prefs.PanStep
	if step <= 0 {
		step = 40
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyEscape:
		a.editor.Cancel()
	case tcell.KeyCtrlZ:
		a.undo()
	case tcell.KeyCtrlY:
		a.redo()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.deleteSelection()
	case tcell.KeyUp:
		a.editor.PanBy(diagram.Point{Y: step})
	case tcell.KeyDown:
		a.editor.PanBy(diagram.Point{Y: -step})
	case tcell.KeyLeft:
		a.editor.PanBy(diagram.Point{X: step})
	case tcell.KeyRight:
		a.editor.PanBy(diagram.Point{X: -step})
	case tcell.KeyRune:
		a.handleRune(ev.Rune())
	}
}

func (a *App) handleRune(r rune) {
	switch r {
	case 'q':
		a.quit = true
	case 's':
		a.editor.SetTool(editor.ToolSelect)
	case 'e':
		a.editor.SetTool(editor.ToolPlaceEntity)
	case 'a':
		a.editor.SetTool(editor.ToolPlaceAnnotation)
	case 'i':
		a.editor.SetTool(editor.ToolCreateIdentifying)
	case 'n':
		a.editor.SetTool(editor.ToolCreateNonIdentifying)
	case 'h':
		a.editor.SetHandTool(!a.editor.HandTool())
	case 'u':
		a.undo()
	case 'r':
		a.redo()
	case '+', '=':
		a.editor.ZoomIn()
	case '-':
		a.editor.ZoomOut()
	case '0':
		a.editor.View().Reset()
	case '?':
		a.showHelp = true
	}
}

func (a *App) undo() {
	if !a.editor.Undo() {
		a.message = "nothing to undo"
	}
}

func (a *App) redo() {
	if !a.editor.Redo() {
		a.message = "nothing to redo"
	}
}

func (a *App) deleteSelection() {
	ok, err := a.editor.DeleteSelection()
	switch {
	case err != nil:
		a.message = err.Error()
		a.logger.Warn("delete failed", zap.Error(err))
	case !ok:
		a.message = "nothing selected"
	}
}

// Draw renders the model and the status line to the screen.
func (a *App) Draw() {
	w, _ := a.screen.Size()
	h := a.canvasHeight()
	if a.canvas == nil {
		a.canvas = render.NewCanvas(w, h)
	} else if cw, ch := a.canvas.Size(); cw != w || ch != h {
		a.canvas = render.NewCanvas(w, h)
	}

	m := a.editor.Model()
	a.renderer.Render(a.canvas, m.Snapshot(), a.editor.View(), render.State{
		Selection:     m.Selection(),
		PendingSource: a.editor.PendingSource(),
	})

	a.screen.Clear()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, attr := a.canvas.Get(x, y)
			if r == 0 {
				continue
			}
			a.screen.SetContent(x, y, r, nil, styleFor(attr))
		}
	}
	if a.prefs.ShowStatusBar {
		a.drawText(0, h, w, a.StatusLine(), statusStyle)
	}
	if a.showHelp {
		a.drawHelp(w, h)
	}
	a.screen.Show()
}

// StatusLine summarises the editor state for the bottom row.
func (a *App) StatusLine() string {
	m := a.editor.Model()
	parts := []string{
		fmt.Sprintf("[%s]", a.editor.Tool()),
		fmt.Sprintf("Nodes: %d", m.NodeCount()),
		fmt.Sprintf("Relationships: %d", m.RelationshipCount()),
		fmt.Sprintf("Zoom: %.0f%%", a.editor.View().Zoom()*100),
	}
	if cur, total := a.editor.HistoryStats(); total > 1 {
		parts = append(parts, fmt.Sprintf("History: %d/%d", cur, total))
	}
	if a.editor.HandTool() {
		parts = append(parts, "HAND")
	}
	if id := a.editor.PendingSource(); id != "" {
		name := id
		if n, ok := m.Node(id); ok && n.Name != "" {
			name = n.Name
		}
		parts = append(parts, "from: "+name)
	}
	if a.message != "" {
		parts = append(parts, a.message)
	}
	return " " + strings.Join(parts, " | ")
}

func (a *App) drawText(x, y, width int, s string, style tcell.Style) {
	col := 0
	for _, r := range s {
		if col >= width {
			break
		}
		a.screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		a.screen.SetContent(x+col, y, ' ', nil, style)
	}
}

var helpLines = []string{
	"erd: keyboard and mouse",
	"",
	"  s  select / drag      e  place entity",
	"  a  place annotation   i  identifying relationship",
	"  n  non-identifying    h  toggle hand tool",
	"  u  undo (ctrl+z)      r  redo (ctrl+y)",
	"  +  zoom in            -  zoom out",
	"  0  reset view         arrows  pan",
	"  del  delete selection esc  cancel",
	"  q  quit",
	"",
	"  left click/drag: tool action   middle drag: pan",
	"  wheel: zoom at pointer",
}

func (a *App) drawHelp(w, h int) {
	width := 0
	for _, l := range helpLines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	x0 := max((w-width)/2, 0)
	y0 := max((h-len(helpLines)-2)/2, 0)
	for i := -1; i <= len(helpLines); i++ {
		line := ""
		if i >= 0 && i < len(helpLines) {
			line = helpLines[i]
		}
		a.drawText(x0, y0+i+1, width, "  "+line, helpStyle)
	}
}

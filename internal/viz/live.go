package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physnodes/internal/render"
	"github.com/san-kum/physnodes/internal/scene"
	"go.uber.org/zap"
)

const (
	canvasCols      = 72
	canvasRows      = 20
	historyCapacity = 600
)

// Builder assembles a fresh world for the player. It is called once on
// start and again on every reset.
type Builder func() (*scene.Built, error)

type TickMsg time.Time

// Options tune the live player.
type Options struct {
	Theme  string
	// Loop restarts the scene after its last frame instead of pausing.
	Loop   bool
	// GIFDir is where recordings are written.
	GIFDir string
	Log    *zap.Logger
}

// Model steps a built scene one frame per tick and draws it on a braille
// canvas.
type Model struct {
	build     Builder
	built     *scene.Built
	opts      Options
	theme     Theme
	bg, fg    *Canvas
	proj      projection
	frame     int
	running   bool
	done      bool
	history   []snapshot
	playHead  int
	heights   []float64
	raster    *render.Rasterizer
	frames    []image.Image
	recording bool
	status    string
	err       error
	showHelp  bool
	log       *zap.Logger
}

func NewModel(build Builder, opts Options) (Model, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.GIFDir == "" {
		opts.GIFDir = "."
	}
	m := Model{
		build:    build,
		opts:     opts,
		theme:    GetTheme(opts.Theme),
		bg:       NewCanvas(canvasCols, canvasRows),
		fg:       NewCanvas(canvasCols, canvasRows),
		running:  true,
		playHead: -1,
		log:      opts.Log,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.done {
				m.err = m.reset()
			} else {
				m.running = !m.running
			}
		case "r":
			m.err = m.reset()
		case ".":
			if !m.running && !m.done {
				m.step()
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			m.toggleRecording()
		case "t":
			m.theme = nextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// reset rebuilds the scene and clears playback state.
func (m *Model) reset() error {
	built, err := m.build()
	if err != nil {
		return err
	}
	m.built = built
	run := built.Scene.Run
	m.proj = newProjection(m.bg, run.Width, run.Height)
	m.frame = 0
	m.done = false
	m.running = true
	m.playHead = -1
	m.history = append(m.history[:0], takeSnapshot(0, built.World))
	m.heights = m.heights[:0]
	m.recordHeight()
	m.status = ""

	if m.recording {
		m.raster, err = render.NewRasterizer(run.Width, run.Height, built.Scene.Style)
		if err != nil {
			return err
		}
		m.frames = m.frames[:0]
	}
	return nil
}

// step advances the world by one frame.
func (m *Model) step() {
	run := m.built.Scene.Run
	if err := m.built.World.Step(run.Dt); err != nil {
		m.err = err
		return
	}
	m.frame++

	m.history = append(m.history, takeSnapshot(m.frame, m.built.World))
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.recordHeight()

	if m.recording && m.raster != nil {
		m.frames = append(m.frames, m.raster.Draw(m.built.World))
	}

	if m.frame >= run.Frames {
		if m.opts.Loop {
			m.err = m.reset()
			return
		}
		m.done = true
		m.running = false
	}
}

// recordHeight tracks the height above the frame bottom of the first
// dynamic shape.
func (m *Model) recordHeight() {
	dyn := m.built.World.Dynamic()
	if len(dyn) == 0 {
		return
	}
	h := float64(m.built.Scene.Run.Height) - dyn[0].Position().Y
	m.heights = append(m.heights, h)
	if len(m.heights) > historyCapacity {
		m.heights = m.heights[1:]
	}
}

// scrub moves the playback position through recorded frames.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) toggleRecording() {
	if !m.recording {
		run := m.built.Scene.Run
		raster, err := render.NewRasterizer(run.Width, run.Height, m.built.Scene.Style)
		if err != nil {
			m.err = err
			return
		}
		m.raster = raster
		m.frames = []image.Image{raster.Draw(m.built.World)}
		m.recording = true
		return
	}

	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	path := fmt.Sprintf("%s/%s_%d.gif", strings.TrimRight(m.opts.GIFDir, "/"), m.built.Scene.Name, time.Now().Unix())
	if err := render.SaveGIF(path, m.frames, render.DelayForDt(m.built.Scene.Run.Dt)); err != nil {
		m.err = err
	} else {
		m.status = "saved " + path
		m.log.Info("recording saved", zap.String("path", path), zap.Int("frames", len(m.frames)))
	}
	m.frames = nil
}

// current returns the snapshot being displayed.
func (m Model) current() snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.history[len(m.history)-1]
}

func (m Model) View() string {
	st := m.theme.styles()
	snap := m.current()
	drawSnapshot(m.bg, m.fg, m.proj, snap)
	canvasView := st.canvas.Render(compose(m.bg, m.fg, st))

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.built.Scene.Name)) + "\n")

	var status string
	switch {
	case m.err != nil:
		status = st.record.Render("ERROR: " + m.err.Error())
	case m.playHead != -1:
		status = st.paused.Render(fmt.Sprintf("REPLAY (frame %d)", snap.frame))
	case m.done:
		status = st.paused.Render("DONE")
	case !m.running:
		status = st.paused.Render("PAUSED")
	default:
		status = st.running.Render("RUNNING")
	}
	if m.recording {
		status += " " + st.record.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Height"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	run := m.built.Scene.Run
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d/%d", snap.frame, run.Frames))
	row("Time", fmt.Sprintf("%.2fs", snap.time))
	row("Shapes", fmt.Sprintf("%d (%d dynamic)", len(snap.shapes), len(m.built.World.Dynamic())))
	row("Step", fmt.Sprintf("%.3fs", run.Dt))
	row("Theme", m.theme.Name)
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nG:Record T:Theme ?:Help\n[ ]:Replay .:Step"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume (restart)   ║
║  .        - Single step when paused  ║
║  R        - Rebuild the scene        ║
║  [ ]      - Replay recorded frames   ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// compose overlays fg on bg and colors runs of cells by layer.
func compose(bg, fg *Canvas, st styles) string {
	var b strings.Builder
	for row := range fg.Grid {
		var (
			run   strings.Builder
			layer = -1
		)
		flush := func() {
			switch layer {
			case 1:
				b.WriteString(st.dynamic.Render(run.String()))
			case 2:
				b.WriteString(st.static.Render(run.String()))
			default:
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := range fg.Grid[row] {
			cell, l := fg.Grid[row][col], 1
			if cell == brailleBlank {
				cell, l = bg.Grid[row][col], 2
				if cell == brailleBlank {
					l = 0
				}
			}
			if l != layer && run.Len() > 0 {
				flush()
			}
			layer = l
			run.WriteRune(cell)
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the player in the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

package viz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/physnodes/internal/config"
	"github.com/san-kum/physnodes/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.Dots()
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)

	c.Set(3, 5)
	assert.True(t, c.IsSet(3, 5))
	assert.False(t, c.IsSet(2, 5))

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
	assert.False(t, c.IsSet(100, 100))

	c.Clear()
	assert.False(t, c.IsSet(3, 5))
	assert.Len(t, strings.Split(strings.TrimRight(c.String(), "\n"), "\n"), 2)
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		assert.True(t, c.IsSet(x, 0), "x=%d", x)
	}

	c.Clear()
	c.DrawCircle(10, 10, 4)
	assert.True(t, c.IsSet(14, 10))
	assert.True(t, c.IsSet(6, 10))
	assert.False(t, c.IsSet(10, 10))

	c.Clear()
	c.DrawPolygon([]int{2, 8, 8, 2}, []int{2, 2, 8, 8})
	assert.True(t, c.IsSet(2, 5))
	assert.True(t, c.IsSet(8, 5))
	assert.False(t, c.IsSet(5, 5))
}

func TestThemes(t *testing.T) {
	assert.Equal(t, "retro", GetTheme("retro").Name)
	assert.Equal(t, ThemeMono.Name, GetTheme("nope").Name)
	assert.Len(t, ThemeNames(), len(Themes))
	assert.Equal(t, Themes[1].Name, nextTheme(Themes[0]).Name)
	assert.Equal(t, Themes[0].Name, nextTheme(Themes[len(Themes)-1]).Name)
}

func dropBuilder(frames int) Builder {
	return func() (*scene.Built, error) {
		sc := config.GetPreset("drop")
		sc.Run.Frames = frames
		return scene.New(nil, nil).Build(context.Background(), sc)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStepsUntilDone(t *testing.T) {
	m, err := NewModel(dropBuilder(3), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, m.frame)

	tickMsg := TickMsg(time.Now())
	for i := 0; i < 5; i++ {
		m = update(t, m, tickMsg)
	}
	assert.Equal(t, 3, m.frame)
	assert.True(t, m.done)
	assert.False(t, m.running)
	assert.Len(t, m.history, 4)
	assert.Contains(t, m.View(), "DONE")

	m = update(t, m, key(" "))
	assert.Equal(t, 0, m.frame)
	assert.True(t, m.running)
}

func TestModelPauseAndStep(t *testing.T) {
	m, err := NewModel(dropBuilder(10), Options{})
	require.NoError(t, err)

	m = update(t, m, key(" "))
	assert.False(t, m.running)
	m = update(t, m, TickMsg(time.Now()))
	assert.Equal(t, 0, m.frame)

	m = update(t, m, key("."))
	assert.Equal(t, 1, m.frame)
	assert.Contains(t, m.View(), "PAUSED")
}

func TestModelLoop(t *testing.T) {
	m, err := NewModel(dropBuilder(2), Options{Loop: true})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	assert.Equal(t, 0, m.frame)
	assert.False(t, m.done)
	assert.True(t, m.running)
}

func TestModelScrub(t *testing.T) {
	m, err := NewModel(dropBuilder(10), Options{})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}

	m = update(t, m, key("["))
	assert.Equal(t, 3, m.playHead)
	assert.Equal(t, 3, m.current().frame)
	assert.Contains(t, m.View(), "REPLAY")

	m = update(t, m, key("]"))
	m = update(t, m, key("]"))
	assert.Equal(t, -1, m.playHead)
}

func TestModelRecordsGIF(t *testing.T) {
	dir := t.TempDir()
	m, err := NewModel(dropBuilder(10), Options{GIFDir: dir})
	require.NoError(t, err)

	m = update(t, m, key("g"))
	assert.True(t, m.recording)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))
	assert.Len(t, m.frames, 3)

	m = update(t, m, key("g"))
	assert.False(t, m.recording)
	require.NoError(t, m.err)
	assert.Contains(t, m.status, dir)
}

func TestModelBuildError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewModel(func() (*scene.Built, error) { return nil, boom }, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestModelQuit(t *testing.T) {
	m, err := NewModel(dropBuilder(3), Options{})
	require.NoError(t, err)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/san-kum/physnodes/internal/tracking"
)

// SavePNGs writes frames as dir/frame_0000.png, frame_0001.png, ... and
// returns the written paths.
func SavePNGs(dir string, frames []image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := gg.SavePNG(path, frame); err != nil {
			return paths, fmt.Errorf("render: save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// EncodeGIF writes frames as a looping animation. delay is in 100ths of a
// second per frame.
func EncodeGIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("render: no frames to encode")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		bounds := frame.Bounds()
		p := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(p, bounds, frame, bounds.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func SaveGIF(path string, frames []image.Image, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := EncodeGIF(f, frames, delay); err != nil {
		return err
	}
	return f.Close()
}

// DelayForDt converts a simulation timestep into a GIF frame delay, never
// shorter than the 2/100 s most viewers honour.
func DelayForDt(dt float64) int {
	d := int(dt*100 + 0.5)
	if d < 2 {
		d = 2
	}
	return d
}

var trackColors = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff"}

// TracksSVG draws every track as a polyline in frame pixel space.
func TracksSVG(points tracking.Points, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, track := range points {
		if len(track) == 0 {
			continue
		}
		stroke := trackColors[i%len(trackColors)]
		if len(track) == 1 {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2" fill="%s"/>
`, track[0].X(), track[0].Y(), stroke))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, stroke))
		for j, p := range track {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X(), p.Y()))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

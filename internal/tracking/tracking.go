// Package tracking records clamped per-frame body positions and serializes
// them as the nested JSON arrays consumed by motion-guided video nodes.
package tracking

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/physnodes/internal/world"
)

// Point is a single [x, y] sample. It marshals as a two-element array.
type Point [2]float64

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }

// Points holds one track per shape, one point per frame.
type Points [][]Point

// Clamp bounds p to [0, width-1] x [0, height-1]. The upper bound is
// applied first so a frame narrower than one pixel still clamps to 0.
func Clamp(p world.Vec, width, height int) Point {
	x, y := p.X, p.Y
	if x > float64(width-1) {
		x = float64(width - 1)
	}
	if x < 0 {
		x = 0
	}
	if y > float64(height-1) {
		y = float64(height - 1)
	}
	if y < 0 {
		y = 0
	}
	return Point{x, y}
}

// Frames is the length of the longest track.
func (ps Points) Frames() int {
	n := 0
	for _, track := range ps {
		if len(track) > n {
			n = len(track)
		}
	}
	return n
}

// Track returns a copy of the i-th track, or nil when out of range.
func (ps Points) Track(i int) []Point {
	if i < 0 || i >= len(ps) {
		return nil
	}
	out := make([]Point, len(ps[i]))
	copy(out, ps[i])
	return out
}

// Axis extracts one coordinate of a track (0 for x, 1 for y).
func (ps Points) Axis(track, axis int) []float64 {
	if track < 0 || track >= len(ps) || axis < 0 || axis > 1 {
		return nil
	}
	out := make([]float64, len(ps[track]))
	for i, p := range ps[track] {
		out[i] = p[axis]
	}
	return out
}

// Encode writes the points as compact JSON. Empty tracks encode as [].
func (ps Points) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(ps.normalized())
}

// JSON returns the JSON text without a trailing newline.
func (ps Points) JSON() (string, error) {
	data, err := json.Marshal(ps.normalized())
	if err != nil {
		return "", fmt.Errorf("tracking: encode points: %w", err)
	}
	return string(data), nil
}

func (ps Points) normalized() Points {
	out := make(Points, len(ps))
	for i, track := range ps {
		if track == nil {
			track = []Point{}
		}
		out[i] = track
	}
	return out
}

// Decode parses tracking JSON produced by Encode.
func Decode(r io.Reader) (Points, error) {
	var ps Points
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("tracking: decode: %w", err)
	}
	return ps, nil
}

// Parse is Decode for an in-memory string.
func Parse(s string) (Points, error) {
	var ps Points
	if err := json.Unmarshal([]byte(s), &ps); err != nil {
		return nil, fmt.Errorf("tracking: parse: %w", err)
	}
	return ps, nil
}

// WriteCSV writes one row per sample: shape, frame, x, y.
func (ps Points) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"shape", "frame", "x", "y"}); err != nil {
		return err
	}
	for i, track := range ps {
		for f, p := range track {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(f),
				strconv.FormatFloat(p[0], 'f', 6, 64),
				strconv.FormatFloat(p[1], 'f', 6, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

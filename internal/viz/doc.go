// Package viz plays a scene live in the terminal.
//
// The player is a Bubble Tea program that steps the world one frame per tick
// and draws it on a braille [Canvas]: static segments on a background layer,
// dynamic shapes on top.
//
// # Key Bindings
//
//	Space - Pause/Resume, restart once the scene is done
//	.     - Single step while paused
//	R     - Rebuild the scene from scratch
//	[ ]   - Replay recorded frames
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//	?     - Show help overlay
//
// # Recording
//
// Recordings are rasterized with the scene's style, the same way the Render
// node draws frames, and saved as GIF into [Options.GIFDir].
package viz

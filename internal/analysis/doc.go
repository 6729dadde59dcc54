// Package analysis summarizes tracked trajectories.
//
//   - [Summarize]: per-shape path length, speeds and rest frame
//   - [PowerSpectrum]: magnitude spectrum of a sampled signal
//   - [DominantFrequency]: strongest non-DC frequency, used for bounce rates
//
// Tracks are read in pixel space, so speeds are pixels per second given the
// frame interval the tracking was recorded with.
package analysis

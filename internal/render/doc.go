// Package render draws detection results and parameter spaces as images.
//
// Overlay draws lines, segments, circles, lanes, the horizon point and the
// region of interest over a copy of the frame, optionally with a labelled
// coordinate grid. AccumulatorImage and Heatmap turn a Hough accumulator
// into an image, with θ or a along X and ρ or b along Y; a 3D circle space
// is shown as its maximum over all radius layers.
//
// Colors are hex strings, "#rrggbb" or "#rrggbbaa". Circles without a fixed
// color get hues spread evenly around the HSV wheel.
package render

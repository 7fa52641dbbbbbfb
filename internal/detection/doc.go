// Package detection runs the Hough transforms over camera frames and returns
// JSON-ready results.
//
// A detection run has three stages:
//
//  1. Edge extraction: the frame's region of interest is segmented into a
//     binary edge image (see the imaging package).
//  2. Voting and extraction: the edge image votes into a line or circle
//     space, and peaks above the threshold are extracted (see the hough
//     package).
//  3. Result formatting: peaks are mapped back to image space, sorted by vote
//     count and annotated with the frame color under them.
//
// # Modes
//
//   - lines: infinite lines clipped to the frame, with their (θ, ρ) peak.
//   - segments: finite segments traced along each line's edge pixels, split
//     where the gap exceeds max_line_gap and kept when at least
//     min_line_length long.
//   - circles: circle centers for one radius, or for a radius range.
//   - lanes: the left and right lane lines and their horizon point.
//
// # Thresholds
//
// The line threshold given in Params is lowered by one fifth in lanes mode
// and by a further third for portrait frames, see
// config.Params.EffectiveLineThreshold. Circle thresholds are used as given.
//
// # Work Budget
//
// Voting cost grows with edgePixels × angleSteps × radiusLayers. Every
// Detect function checks that product against Params.MaxVotes before
// allocating a space and fails with ErrWorkBudget when it is exceeded.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection

// Package hough implements the voting transforms used to find straight lines
// and circles in a binary edge image.
//
// Every transform follows the same two-step shape:
//
//  1. Build: each edge pixel votes into a dense integer accumulator (the
//     parameter space) for every parameter combination whose curve passes
//     through it.
//  2. Extract: cells whose vote count exceeds a threshold are reported as
//     detections, subject to a suppression rule that keeps one detection per
//     physical feature.
//
// # Transforms
//
//   - Lines: a (θ, ρ) space built from the normal form ρ = x·cos θ + y·sin θ.
//     Peaks are kept by non-maximum suppression over a square neighborhood
//     whose θ axis wraps around.
//   - Circles of known radius: an (a, b) center space. Peaks are kept by a
//     raster scan that skips ahead by a minimum distance after each hit.
//   - Circles of unknown radius: an (a, b, r) space over a sampled radius
//     range, extracted layer by layer with the same skip-ahead rule.
//
// # Conventions
//
// Two line index conventions exist and are selected with IndexConvention:
// Centered measures ρ from the image center and biases it by the Hough
// height ⌊√2·max(W,H)/2⌋; CornerAnchored measures ρ from the top-left pixel and
// biases it by the diagonal ⌊√(W²+H²)⌋. Building, extraction and the inverse
// mapping to image space always use the same convention.
//
// Circle votes are limited by a VoteBoundsRule. The default BoundsUpperLeft
// only accepts centers with 0 < a ≤ x and 0 < b ≤ y relative to the voting
// pixel, which is the reference behavior; BoundsFullImage accepts any center
// inside the image.
//
// # Ownership
//
// Spaces are allocated by the Build functions and owned by the caller. They
// are never shared across frames implicitly: reuse requires Reset, which
// zeroes every cell. Votes that fall outside the accumulator are dropped
// silently and counted, they are part of the discretization and not an error.
//
// The package performs no I/O and keeps no package level mutable state, so
// independent spaces may be built concurrently.
package hough

// Package imaging turns camera frames into the binary edge images consumed by
// the Hough transforms.
//
// It loads and caches frames, resolves the region of interest that is allowed
// to vote, and segments that region with one of several edge methods:
//
//   - adaptive: local Gaussian-mean threshold followed by a 2×2 erosion. This
//     picks out bright road markings and is the default.
//   - threshold: global luminance cut-off (bild segment.Threshold).
//   - canny: Canny edge detector with hysteresis.
//   - sobel: thresholded Sobel response (bild effect.Sobel).
//   - none: the frame is already binary; every non-black pixel is an edge.
//
// # Coordinate System
//
// All coordinates are 0-based with (0,0) at the top-left, X increasing to the
// right and Y increasing downward. Regions are half-open rectangles. Edge
// images are always frame-sized, so detections from a region of interest are
// reported in frame coordinates.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and may be called concurrently on different images.
package imaging

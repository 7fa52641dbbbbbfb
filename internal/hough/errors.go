package hough

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by every precondition failure in this
// package. Callers test for it with errors.Is.
var ErrInvalidParameter = errors.New("invalid hough parameter")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func checkEdges(edges *EdgeImage) error {
	if edges == nil {
		return invalidf("edge image is nil")
	}
	if edges.Width <= 0 || edges.Height <= 0 {
		return invalidf("edge image is empty (%dx%d)", edges.Width, edges.Height)
	}
	if len(edges.Pix) != edges.Width*edges.Height {
		return invalidf("edge image has %d samples, want %d", len(edges.Pix), edges.Width*edges.Height)
	}
	return nil
}

func checkThreshold(threshold int) error {
	if threshold < 0 {
		return invalidf("threshold must be >= 0, got %d", threshold)
	}
	return nil
}

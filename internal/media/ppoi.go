// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"fmt"
	"strconv"
	"strings"
)

// PPOI is the primary point of interest of an image, as fractions of its
// width and height. Crops are centred on it.
type PPOI struct {
	X float64
	Y float64
}

// DefaultPPOI is the image centre.
var DefaultPPOI = PPOI{X: 0.5, Y: 0.5}

// ParsePPOI parses the stored "<x>x<y>" form, e.g. "0.5x0.25".
// An empty string yields [DefaultPPOI].
func ParsePPOI(raw string) (PPOI, error) {
	if raw == "" {
		return DefaultPPOI, nil
	}

	xRaw, yRaw, found := strings.Cut(raw, "x")
	if !found {
		return PPOI{}, fmt.Errorf("ppoi %q: expected <x>x<y>", raw)
	}

	x, err := strconv.ParseFloat(xRaw, 64)
	if err != nil {
		return PPOI{}, fmt.Errorf("ppoi %q: %w", raw, err)
	}
	y, err := strconv.ParseFloat(yRaw, 64)
	if err != nil {
		return PPOI{}, fmt.Errorf("ppoi %q: %w", raw, err)
	}

	if x < 0 || x > 1 || y < 0 || y > 1 {
		return PPOI{}, fmt.Errorf("ppoi %q: coordinates must be within [0, 1]", raw)
	}

	return PPOI{X: x, Y: y}, nil
}

// String returns the stored form of the point.
func (point PPOI) String() string {
	return formatCoord(point.X) + "x" + formatCoord(point.Y)
}

// keyToken renders the point for use inside an object key ("c0-5__0-5").
func (point PPOI) keyToken() string {
	return "c" + strings.ReplaceAll(formatCoord(point.X), ".", "-") + "__" + strings.ReplaceAll(formatCoord(point.Y), ".", "-")
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

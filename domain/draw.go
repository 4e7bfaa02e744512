package domain

import "canvas-lab/errors"

// Point is a coordinate on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tool selects how a stroke is applied to the surface.
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

// DrawAction is one committed stroke. It is immutable once appended to a
// room's history; the surface is always a full replay of the history.
type DrawAction struct {
	UserID      string  `json:"userId"`
	Tool        Tool    `json:"tool"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
	Points      []Point `json:"points"`
}

// Validate rejects strokes that could not have come from a real gesture:
// an unknown tool, a non-positive width, or fewer than two points.
func (a DrawAction) Validate() error {
	if a.Tool != ToolBrush && a.Tool != ToolEraser {
		return errors.ErrInvalidInput
	}
	if a.StrokeWidth <= 0 {
		return errors.ErrInvalidInput
	}
	if len(a.Points) < 2 {
		return errors.ErrInvalidInput
	}
	return nil
}

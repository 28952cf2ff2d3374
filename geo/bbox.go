package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// BBox is an axis-aligned bounding box in lon/lat order:
// min x (west), min y (south), max x (east), max y (north).
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// ParseBBox reads the CLI form "minx,miny,maxx,maxy".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("geo: bbox needs 4 comma-separated values, got %q", s)
	}

	vals := [4]float64{}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("geo: bad bbox coordinate %q: %w", p, err)
		}
		vals[i] = v
	}

	b := BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}

func (b BBox) Validate() error {
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return fmt.Errorf("geo: degenerate bbox %v", b)
	}
	return nil
}

func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

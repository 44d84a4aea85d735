package view

type Point struct {
	X, Y int
}

// Resolve dimensions for a box
type Dimensions struct {
	Origin        Point // TL corner
	Width, Height int
}

type LayoutBox func(Dimensions)

// Size is either an absolute number of cells or a share of the parent.
type Size struct {
	abs int
	rel float64 // [0, 1]
}

func Abs(abs int) Size {
	return Size{abs: abs}
}

func Rel(rel float64) Size {
	return Size{rel: rel}
}

func (s Size) toAbs(size int) int {
	if s.abs != 0 {
		return s.abs
	}
	return int(s.rel * float64(size))
}

type Item struct {
	Box  LayoutBox
	Size Size
}

func Fixed(box LayoutBox, size Size) Item {
	return Item{Box: box, Size: size}
}

// Column stacks items from top to bottom. Fixed items get their size first,
// whatever is left is split between the items with a zero Size.
type Column []Item

func (c Column) Layout(width, height int) []Dimensions {
	dims := make([]Dimensions, len(c))

	remaining := height
	flexible := 0
	for i, item := range c {
		if item.Size == (Size{}) {
			flexible++
			continue
		}
		dims[i].Height = min(item.Size.toAbs(height), remaining)
		remaining -= dims[i].Height
	}
	for i, item := range c {
		if item.Size == (Size{}) && flexible > 0 {
			dims[i].Height = remaining / flexible
			remaining -= dims[i].Height
			flexible--
		}
	}

	y := 0
	for i := range dims {
		dims[i].Origin = Point{0, y}
		dims[i].Width = width
		y += dims[i].Height
	}
	return dims
}

func (c Column) Draw(width, height int) {
	for i, dim := range c.Layout(width, height) {
		if c[i].Box != nil && dim.Height > 0 {
			c[i].Box(dim)
		}
	}
}

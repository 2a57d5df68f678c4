package render

// Box sizing bounds, in terminal cells.
const (
	MinBoxWidth = 14
	MaxBoxWidth = 32
	BoxGap      = 2
)

// Viewport is the grid the neighbour boxes are laid out on.
type Viewport struct {
	Width    int
	BoxWidth int
	Columns  int
	Rows     int
}

// Fit sizes the boxes so every node in the scene fits within width. When
// the neighbours do not fit on one row they wrap onto more rows.
func Fit(scene Scene, width int) Viewport {
	vp := Viewport{Width: width, Columns: 1}
	n := len(scene.Neighbours())

	if width < MinBoxWidth {
		vp.BoxWidth = max(width, 4)
		vp.Rows = n
		return vp
	}

	if n > 0 {
		vp.Columns = max(1, min(n, (width+BoxGap)/(MinBoxWidth+BoxGap)))
		vp.Rows = (n + vp.Columns - 1) / vp.Columns
	}
	vp.BoxWidth = min(MaxBoxWidth, (width-BoxGap*(vp.Columns-1))/vp.Columns)
	return vp
}

// Position returns the grid row and column of a neighbour slot.
func (v Viewport) Position(slot int) (row, col int) {
	if v.Columns <= 0 {
		return slot, 0
	}
	return slot / v.Columns, slot % v.Columns
}

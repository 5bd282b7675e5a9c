package report

// Layout is the vertical geometry of a page.
type Layout struct {
	PageHeight   float64
	TopMargin    float64
	BottomMargin float64
}

// Limit is the lowest y a block may reach.
func (l Layout) Limit() float64 {
	return l.PageHeight - l.BottomMargin
}

// Measurer reports the vertical space a block occupies when drawn.
type Measurer interface {
	Measure(b Block) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(b Block) float64

// Measure implements Measurer.
func (f MeasureFunc) Measure(b Block) float64 { return f(b) }

// Placed is a block positioned on a page.
type Placed struct {
	Block  Block
	Y      float64
	Height float64
}

// Page holds the blocks drawn on one page, top to bottom.
type Page struct {
	Blocks []Placed
}

// Paginate assigns blocks to pages with a running cursor. Before each block
// it checks whether the block would cross the bottom margin and, if so,
// starts a new page. A block that does not fit on an empty page is placed
// anyway. Page-break blocks start a new page unless the current one is empty.
func Paginate(blocks []Block, layout Layout, m Measurer) []Page {
	pages := []Page{{}}
	y := layout.TopMargin
	limit := layout.Limit()

	newPage := func() {
		pages = append(pages, Page{})
		y = layout.TopMargin
	}

	for i, b := range blocks {
		cur := &pages[len(pages)-1]

		if b.Kind == KindPageBreak {
			if len(cur.Blocks) > 0 {
				newPage()
			}
			continue
		}

		h := m.Measure(b)
		need := h
		if b.KeepWithNext && i+1 < len(blocks) && blocks[i+1].Kind != KindPageBreak {
			need += m.Measure(blocks[i+1])
		}

		if y+need > limit && len(cur.Blocks) > 0 {
			newPage()
			cur = &pages[len(pages)-1]
		}

		// Spacers are dropped at the top of a page.
		if b.Kind == KindSpacer && len(cur.Blocks) == 0 {
			continue
		}

		cur.Blocks = append(cur.Blocks, Placed{Block: b, Y: y, Height: h})
		y += h
	}

	if n := len(pages); n > 1 && len(pages[n-1].Blocks) == 0 {
		pages = pages[:n-1]
	}
	return pages
}

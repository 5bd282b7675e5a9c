// Package report builds the success-analysis document for a lead. Content is
// expressed as a flat list of blocks, paginated by measured height and then
// drawn to PDF.
package report

// Kind identifies how a block is measured and drawn.
type Kind int

const (
	KindHeader Kind = iota
	KindHeading
	KindSubheading
	KindParagraph
	KindTable
	KindFootnote
	KindBullet
	KindNumbered
	KindCallout
	KindSpacer
	KindPageBreak
)

var kindNames = [...]string{
	KindHeader:     "header",
	KindHeading:    "heading",
	KindSubheading: "subheading",
	KindParagraph:  "paragraph",
	KindTable:      "table",
	KindFootnote:   "footnote",
	KindBullet:     "bullet",
	KindNumbered:   "numbered",
	KindCallout:    "callout",
	KindSpacer:     "spacer",
	KindPageBreak:  "page_break",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Row is one label/value line of a table block.
type Row struct {
	Label string
	Value string
}

// Block is one unit of document content. Only the fields relevant to Kind
// are set.
type Block struct {
	Kind Kind
	// ID tags well-known blocks, e.g. "current_metrics".
	ID    string
	Text  string
	Sub   string
	Lines []string
	Rows  []Row
	Index int
	// Height is used by spacer blocks only.
	Height float64
	// KeepWithNext moves the block to the next page together with its
	// successor when the pair would not fit.
	KeepWithNext bool
}

// Well-known block ids.
const (
	IDCurrentMetrics   = "current_metrics"
	IDProjectedMetrics = "projected_metrics"
)

// FindTable returns the first table block with the given id.
func FindTable(blocks []Block, id string) (Block, bool) {
	for _, b := range blocks {
		if b.Kind == KindTable && b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

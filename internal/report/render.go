package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/model"
)

// ContentType is the MIME type of rendered documents.
const ContentType = "application/pdf"

// A4 portrait geometry in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginX      = 20.0
	marginTop    = 20.0
	marginBottom = 22.0
	contentWidth = pageWidth - 2*marginX

	fontFamily   = "Helvetica"
	bodyLineH    = 6.0
	footLineH    = 4.5
	tableRowH    = 8.0
	listIndent   = 7.0
	headerBandH  = 28.0
	calloutPad   = 6.0
	blockSpacing = 3.0
)

// PageLayout is the layout every rendered page uses.
var PageLayout = Layout{PageHeight: pageHeight, TopMargin: marginTop, BottomMargin: marginBottom}

var (
	brandColor = [3]int{26, 54, 93}
	shadeColor = [3]int{238, 242, 247}
	mutedColor = [3]int{96, 104, 112}
)

// Document is a rendered report.
type Document struct {
	Bytes []byte
	Pages int
	// Fallback is set when the full report failed and a minimal apology
	// document was produced instead.
	Fallback bool
}

// Renderer turns a lead and its analysis into a PDF.
type Renderer struct {
	opts     Options
	catalog  Catalog
	compress bool
	now      func() time.Time

	build func(model.Lead, analysis.Result, Catalog, Options) []Block
}

// NewRenderer creates a Renderer. Compression should only be disabled for
// debugging or tests that inspect the raw content streams.
func NewRenderer(opts Options, cat Catalog, compress bool) *Renderer {
	return &Renderer{
		opts:     opts,
		catalog:  cat,
		compress: compress,
		now:      time.Now,
		build:    Build,
	}
}

// WithClock replaces the time source used for the header date.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render produces the report for l. Any failure while building or drawing the
// full report yields the fallback document instead; an error is returned only
// when the fallback itself cannot be produced.
func (r *Renderer) Render(l model.Lead, res analysis.Result) (Document, error) {
	doc, err := r.renderFull(l, res)
	if err == nil {
		return doc, nil
	}

	zap.L().Warn("report: render failed, using fallback",
		zap.String("lead_id", l.ID),
		zap.Error(err),
	)
	fb, ferr := r.renderFallback(l)
	if ferr != nil {
		return Document{}, eris.Wrap(ferr, "report: render fallback")
	}
	return fb, nil
}

func (r *Renderer) renderFull(l model.Lead, res analysis.Result) (doc Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = eris.Errorf("report: panic during render: %v", p)
		}
	}()

	now := r.now()
	opts := r.opts
	opts.Date = now
	blocks := r.build(l, res, r.catalog, opts)

	e := newEngine(r.compress, opts.BrandName, now)
	pages := Paginate(blocks, PageLayout, e)
	for _, p := range pages {
		e.pdf.AddPage()
		for _, pl := range p.Blocks {
			e.draw(pl)
		}
	}

	out, err := e.output()
	if err != nil {
		return Document{}, err
	}
	return Document{Bytes: out, Pages: len(pages)}, nil
}

// engine wraps an fpdf document and knows how to measure and draw blocks.
type engine struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newEngine(compress bool, brand string, created time.Time) *engine {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, marginTop, marginX)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(brand+" Success Analysis", true)
	pdf.SetCreator(brand, true)
	pdf.AliasNbPages("")

	e := &engine{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		e.font("I", 8, mutedColor)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return e
}

func (e *engine) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "report: write pdf")
	}
	return buf.Bytes(), nil
}

func (e *engine) font(style string, size float64, color [3]int) {
	e.pdf.SetFont(fontFamily, style, size)
	e.pdf.SetTextColor(color[0], color[1], color[2])
}

// lines returns how many lines text wraps to at width with the current font.
func (e *engine) lines(text string, width float64) int {
	if text == "" {
		return 1
	}
	n := len(e.pdf.SplitLines([]byte(e.tr(text)), width))
	if n == 0 {
		return 1
	}
	return n
}

// Measure implements Measurer using the document's font metrics.
func (e *engine) Measure(b Block) float64 {
	switch b.Kind {
	case KindHeader:
		return headerBandH + 8
	case KindHeading:
		return 12
	case KindSubheading:
		return 9
	case KindParagraph:
		e.font("", 11, [3]int{})
		return float64(e.lines(b.Text, contentWidth))*bodyLineH + blockSpacing
	case KindTable:
		return float64(len(b.Rows))*tableRowH + blockSpacing
	case KindFootnote:
		e.font("I", 9, [3]int{})
		return float64(e.lines(b.Text, contentWidth))*footLineH + blockSpacing
	case KindBullet, KindNumbered:
		e.font("", 11, [3]int{})
		return float64(e.lines(b.Text, contentWidth-listIndent))*bodyLineH + 1.5
	case KindCallout:
		e.font("", 11, [3]int{})
		n := 0
		for _, line := range b.Lines {
			n += e.lines(line, contentWidth-2*calloutPad)
		}
		return 2*calloutPad + 9 + float64(n)*bodyLineH
	case KindSpacer:
		return b.Height
	default:
		return 0
	}
}

func (e *engine) draw(p Placed) {
	pdf := e.pdf
	b := p.Block
	pdf.SetXY(marginX, p.Y)

	switch b.Kind {
	case KindHeader:
		pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
		pdf.Rect(marginX, p.Y, contentWidth, headerBandH, "F")
		pdf.SetXY(marginX+6, p.Y+5)
		e.font("B", 20, [3]int{255, 255, 255})
		pdf.CellFormat(contentWidth-12, 10, e.tr(b.Text), "", 2, "L", false, 0, "")
		pdf.SetX(marginX + 6)
		e.font("", 11, [3]int{255, 255, 255})
		pdf.CellFormat(contentWidth-12, 8, e.tr(b.Sub), "", 0, "L", false, 0, "")

	case KindHeading:
		pdf.SetY(p.Y + 3)
		e.font("B", 15, brandColor)
		pdf.CellFormat(contentWidth, 8, e.tr(b.Text), "", 0, "L", false, 0, "")

	case KindSubheading:
		pdf.SetY(p.Y + 2)
		e.font("B", 12, brandColor)
		pdf.CellFormat(contentWidth, 6, e.tr(b.Text), "", 0, "L", false, 0, "")

	case KindParagraph:
		e.font("", 11, [3]int{40, 40, 40})
		pdf.MultiCell(contentWidth, bodyLineH, e.tr(b.Text), "", "L", false)

	case KindTable:
		labelW := contentWidth * 0.6
		pdf.SetFillColor(shadeColor[0], shadeColor[1], shadeColor[2])
		for i, row := range b.Rows {
			shade := i%2 == 0
			pdf.SetX(marginX)
			e.font("", 11, [3]int{40, 40, 40})
			pdf.CellFormat(labelW, tableRowH, "  "+e.tr(row.Label), "", 0, "L", shade, 0, "")
			e.font("B", 11, [3]int{40, 40, 40})
			pdf.CellFormat(contentWidth-labelW, tableRowH, e.tr(row.Value)+"  ", "", 1, "R", shade, 0, "")
		}

	case KindFootnote:
		e.font("I", 9, mutedColor)
		pdf.MultiCell(contentWidth, footLineH, e.tr(b.Text), "", "L", false)

	case KindBullet, KindNumbered:
		marker := e.tr("•")
		if b.Kind == KindNumbered {
			marker = fmt.Sprintf("%d.", b.Index)
		}
		e.font("B", 11, brandColor)
		pdf.CellFormat(listIndent, bodyLineH, marker, "", 0, "L", false, 0, "")
		e.font("", 11, [3]int{40, 40, 40})
		pdf.MultiCell(contentWidth-listIndent, bodyLineH, e.tr(b.Text), "", "L", false)

	case KindCallout:
		h := p.Height
		pdf.SetFillColor(shadeColor[0], shadeColor[1], shadeColor[2])
		pdf.SetDrawColor(brandColor[0], brandColor[1], brandColor[2])
		pdf.SetLineWidth(0.6)
		pdf.Rect(marginX, p.Y, contentWidth, h, "FD")
		pdf.SetXY(marginX+calloutPad, p.Y+calloutPad)
		e.font("B", 14, brandColor)
		pdf.CellFormat(contentWidth-2*calloutPad, 9, e.tr(b.Text), "", 2, "L", false, 0, "")
		e.font("", 11, [3]int{40, 40, 40})
		for _, line := range b.Lines {
			pdf.SetX(marginX + calloutPad)
			pdf.MultiCell(contentWidth-2*calloutPad, bodyLineH, e.tr(line), "", "L", false)
		}
	}
}

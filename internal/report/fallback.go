package report

import (
	"github.com/agentgrowth/leadflow/internal/model"
)

// renderFallback draws a single page with a title, an apology and the
// support contact. It uses no lead data beyond the first name.
func (r *Renderer) renderFallback(l model.Lead) (Document, error) {
	e := newEngine(r.compress, r.opts.BrandName, r.now())
	pdf := e.pdf
	pdf.AddPage()

	pdf.SetXY(marginX, marginTop+10)
	e.font("B", 20, brandColor)
	pdf.CellFormat(contentWidth, 12, e.tr(r.opts.BrandName+" Success Analysis"), "", 2, "L", false, 0, "")
	pdf.Ln(6)

	greeting := "Thank you for completing the business assessment."
	if l.FirstName != "" {
		greeting = "Thank you for completing the business assessment, " + l.FirstName + "."
	}
	e.font("", 12, [3]int{40, 40, 40})
	pdf.MultiCell(contentWidth, 7, e.tr(greeting), "", "L", false)
	pdf.Ln(3)
	pdf.MultiCell(contentWidth, 7, e.tr(
		"We're sorry, but we could not generate your full personalized report right now. "+
			"Our team has been notified and will send it to you personally."), "", "L", false)
	pdf.Ln(6)

	contact := "Questions? Contact our support team"
	switch {
	case r.opts.SupportEmail != "" && r.opts.SupportPhone != "":
		contact += " at " + r.opts.SupportEmail + " or " + r.opts.SupportPhone + "."
	case r.opts.SupportEmail != "":
		contact += " at " + r.opts.SupportEmail + "."
	case r.opts.SupportPhone != "":
		contact += " at " + r.opts.SupportPhone + "."
	default:
		contact += "."
	}
	e.font("B", 12, brandColor)
	pdf.MultiCell(contentWidth, 7, e.tr(contact), "", "L", false)

	out, err := e.output()
	if err != nil {
		return Document{}, err
	}
	return Document{Bytes: out, Pages: 1, Fallback: true}, nil
}

// Package export writes stored leads to spreadsheets for the sales team.
package export

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/crm"
	"github.com/agentgrowth/leadflow/internal/model"
)

// SheetName is the worksheet leads are written to.
const SheetName = "Leads"

// Header lists the exported columns in order.
var Header = []string{
	"ID", "Created", "First Name", "Last Name", "Email", "Phone", "Location",
	"Experience", "Brokerage", "Sphere Size", "Annual Transactions",
	"Weekly Hours", "Target Income", "Current Earnings", "Earnings Gap",
	"Lead Score", "Timeline", "Stress", "Challenge", "Status",
	"PDF Generated", "PDF Sent", "CRM Synced",
}

// Row renders one lead as spreadsheet cells in Header order.
func Row(l model.Lead) []string {
	r := analysis.Analyze(l)
	c := crm.MapContact(l)
	return []string{
		l.ID,
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.FirstName,
		l.LastName,
		l.Email,
		l.Phone,
		l.Location,
		string(l.ExperienceLevel),
		l.CurrentBrokerage,
		analysis.Count(float64(l.SphereSize)),
		analysis.Count(float64(l.AnnualTransactions)),
		analysis.Number(l.WeeklyHours),
		analysis.Currency(l.TargetIncome),
		analysis.Currency(r.CurrentEarnings),
		analysis.Currency(r.EarningsGap),
		analysis.Count(float64(c.LeadScore)),
		string(l.StartTimeline),
		string(l.BusinessStressLevel),
		strings.ReplaceAll(string(l.BiggestChallenge), "_", " "),
		string(l.Status),
		yesNo(l.PDFGenerated),
		yesNo(l.PDFSent),
		yesNo(l.CRMSynced),
	}
}

// Leads builds a workbook with a header row and one row per lead.
func Leads(leads []model.Lead) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, Header)
	for _, l := range leads {
		addRow(sheet, Row(l))
	}
	return f, nil
}

// WriteFile saves leads as an xlsx workbook at path.
func WriteFile(path string, leads []model.Lead) error {
	f, err := Leads(leads)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

// ReadFile returns every row of the leads sheet at path, header included.
func ReadFile(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	sheet, ok := f.Sheet[SheetName]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", SheetName)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

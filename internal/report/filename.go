package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentgrowth/leadflow/internal/model"
)

// FileName returns the object name a lead's report is stored under:
// {first}-{last}-success-analysis-{epochMillis}.pdf with names slugged.
func FileName(l model.Lead, at time.Time) string {
	name := slug(l.FirstName + " " + l.LastName)
	if name == "" {
		name = "lead"
	}
	return fmt.Sprintf("%s-success-analysis-%d.pdf", name, at.UnixMilli())
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

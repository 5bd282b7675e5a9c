package crm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/pkg/salesforce"
)

// Salesforce mirrors contacts as Salesforce Lead records, matched on email.
type Salesforce struct {
	client salesforce.Client
}

// NewSalesforce creates a Salesforce sink.
func NewSalesforce(client salesforce.Client) *Salesforce {
	return &Salesforce{client: client}
}

// Name implements Sink.
func (s *Salesforce) Name() string { return "salesforce" }

// Push implements Sink.
func (s *Salesforce) Push(ctx context.Context, c Contact) error {
	if _, _, err := salesforce.UpsertLead(ctx, s.client, salesforceFields(c)); err != nil {
		return eris.Wrap(err, "crm: salesforce push")
	}
	return nil
}

func salesforceFields(c Contact) map[string]any {
	last := c.LastName
	if last == "" {
		last = c.FirstName
	}
	fields := map[string]any{
		"FirstName":   c.FirstName,
		"LastName":    last,
		"Email":       c.Email,
		"Company":     company(c),
		"LeadSource":  c.Source,
		"Rating":      rating(c.LeadScore),
		"Description": "Tags: " + strings.Join(c.Tags, ", "),
	}
	if c.Phone != "" {
		fields["Phone"] = c.Phone
	}
	if c.Location != "" {
		fields["City"] = c.Location
	}
	return fields
}

// company fills Salesforce's required Company field from the brokerage.
func company(c Contact) string {
	if b, _ := c.CustomFields["currentBrokerage"].(string); b != "" {
		return b
	}
	return "Independent Agent"
}

func rating(score int) string {
	switch {
	case score >= 70:
		return "Hot"
	case score >= 40:
		return "Warm"
	default:
		return "Cold"
	}
}

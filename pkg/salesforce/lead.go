package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// LeadObject is the Salesforce SObject name for leads.
const LeadObject = "Lead"

// Lead is the subset of a Salesforce Lead record needed for matching.
type Lead struct {
	ID    string `json:"Id" salesforce:"Id"`
	Email string `json:"Email" salesforce:"Email"`
}

// FindLeadByEmail returns the first Lead with the given email, or nil.
func FindLeadByEmail(ctx context.Context, c Client, email string) (*Lead, error) {
	soql := fmt.Sprintf("SELECT Id, Email FROM Lead WHERE Email = '%s' LIMIT 1", escapeSoql(email))

	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, "sf: find lead by email")
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// UpsertLead updates the Lead matching fields["Email"] or creates one. It
// returns the record id and whether a record was created.
func UpsertLead(ctx context.Context, c Client, fields map[string]any) (string, bool, error) {
	email, _ := fields["Email"].(string)
	if email == "" {
		return "", false, eris.New("sf: lead Email is required")
	}
	if last, _ := fields["LastName"].(string); last == "" {
		return "", false, eris.New("sf: lead LastName is required")
	}

	existing, err := FindLeadByEmail(ctx, c, email)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		if err := c.UpdateOne(ctx, LeadObject, existing.ID, fields); err != nil {
			return "", false, eris.Wrap(err, "sf: upsert lead")
		}
		return existing.ID, false, nil
	}

	id, err := c.InsertOne(ctx, LeadObject, fields)
	if err != nil {
		return "", false, eris.Wrap(err, "sf: upsert lead")
	}
	return id, true, nil
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

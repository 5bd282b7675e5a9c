package crm

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/pkg/notion"
)

// Notion mirrors contacts into a Notion lead database, one page per lead.
type Notion struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a Notion sink writing to dbID.
func NewNotion(client notion.Client, dbID string) *Notion {
	return &Notion{client: client, dbID: dbID}
}

// Name implements Sink.
func (n *Notion) Name() string { return "notion" }

// Push implements Sink. Pages are keyed on the "Lead ID" property so
// redelivery updates rather than duplicates.
func (n *Notion) Push(ctx context.Context, c Contact) error {
	props := notionapi.Properties{
		"Name":    notion.Title(c.FirstName + " " + c.LastName),
		"Lead ID": notion.Text(c.LeadID),
		"Email":   notionapi.EmailProperty{Email: c.Email},
		"Score":   notionapi.NumberProperty{Number: float64(c.LeadScore)},
		"Tags":    notion.MultiSelect(c.Tags),
		"Source":  notionapi.SelectProperty{Select: notionapi.Option{Name: c.Source}},
	}
	if c.Phone != "" {
		props["Phone"] = notionapi.PhoneNumberProperty{PhoneNumber: c.Phone}
	}

	if _, _, err := notion.Upsert(ctx, n.client, n.dbID, "Lead ID", c.LeadID, props); err != nil {
		return eris.Wrap(err, "crm: notion push")
	}
	return nil
}

// Package notify delivers a rendered report by email and forwards the scored
// contact to the CRM sinks.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/crm"
	"github.com/agentgrowth/leadflow/internal/model"
	"github.com/agentgrowth/leadflow/internal/report"
	"github.com/agentgrowth/leadflow/pkg/objstore"
	"github.com/agentgrowth/leadflow/pkg/resend"
)

// Delivery stages reported in DeliveryError.
const (
	StageUpload = "upload"
	StageEmail  = "email"
	StageCRM    = "crm"
	StageRender = "render"
)

// DeliveryError is a failed external side effect. It is logged and never
// retried automatically.
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notify: %s failed: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Config holds sender identity and branding for outbound email.
type Config struct {
	ReportsBucket string
	From          string
	ReplyTo       string
	BrandName     string
	SupportEmail  string
	BookingURL    string
}

// Delivery is one lead's finished report, ready to send.
type Delivery struct {
	Lead     model.Lead
	Analysis analysis.Result
	Document report.Document
	// At names the stored object; zero means now.
	At time.Time
}

// Outcome is the result of both branches. A nil error means the branch
// fully succeeded.
type Outcome struct {
	ObjectName string
	MessageID  string
	EmailErr   error
	CRMErr     error
}

// Delivered reports whether the document was stored and emailed.
func (o Outcome) Delivered() bool { return o.EmailErr == nil }

// CRMSynced reports whether every configured CRM sink accepted the contact.
func (o Outcome) CRMSynced() bool { return o.CRMErr == nil }

// Dispatcher runs the email and CRM branches for a delivery.
type Dispatcher struct {
	cfg     Config
	storage objstore.Client
	email   resend.Client
	sinks   []crm.Sink
	tmpl    *templates
	now     func() time.Time
}

// New creates a Dispatcher. sinks may be empty, in which case every
// delivery reports the CRM branch as failed.
func New(cfg Config, storage objstore.Client, email resend.Client, sinks []crm.Sink) (*Dispatcher, error) {
	if cfg.ReportsBucket == "" {
		return nil, eris.New("notify: reports bucket is required")
	}
	if cfg.From == "" {
		return nil, eris.New("notify: from address is required")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		cfg:     cfg,
		storage: storage,
		email:   email,
		sinks:   sinks,
		tmpl:    tmpl,
		now:     time.Now,
	}, nil
}

// Dispatch runs both branches concurrently. Neither branch's failure stops
// the other.
func (d *Dispatcher) Dispatch(ctx context.Context, del Delivery) Outcome {
	at := del.At
	if at.IsZero() {
		at = d.now()
	}
	out := Outcome{ObjectName: report.FileName(del.Lead, at)}

	var g errgroup.Group
	g.Go(func() error {
		out.MessageID, out.EmailErr = d.sendReport(ctx, del, out.ObjectName)
		return nil
	})
	g.Go(func() error {
		out.CRMErr = d.SyncCRM(ctx, del.Lead)
		return nil
	})
	_ = g.Wait()

	log := zap.L().With(zap.String("lead_id", del.Lead.ID))
	if out.EmailErr != nil {
		log.Error("notify: report delivery failed", zap.Error(out.EmailErr))
	} else {
		log.Info("notify: report delivered",
			zap.String("object", out.ObjectName),
			zap.String("message_id", out.MessageID),
			zap.Bool("fallback", del.Document.Fallback),
		)
	}
	if out.CRMErr != nil {
		log.Warn("notify: crm sync failed", zap.Error(out.CRMErr))
	}
	return out
}

// sendReport uploads the document, then emails it. A failed upload aborts
// the send.
func (d *Dispatcher) sendReport(ctx context.Context, del Delivery, object string) (string, error) {
	if err := d.storage.Upload(ctx, d.cfg.ReportsBucket, object, del.Document.Bytes, report.ContentType); err != nil {
		return "", &DeliveryError{Stage: StageUpload, Err: err}
	}

	html, text, err := d.tmpl.render(d.emailData(del.Lead, del.Analysis, del.Document.Fallback))
	if err != nil {
		return "", &DeliveryError{Stage: StageEmail, Err: err}
	}

	id, err := d.email.Send(ctx, &resend.Email{
		From:    d.cfg.From,
		To:      []string{del.Lead.Email},
		ReplyTo: d.cfg.ReplyTo,
		Subject: fmt.Sprintf("Your %s Success Analysis", d.cfg.BrandName),
		HTML:    html,
		Text:    text,
		Attachments: []resend.Attachment{{
			Filename:    object,
			Content:     del.Document.Bytes,
			ContentType: report.ContentType,
		}},
		Tags:           map[string]string{"category": "success_analysis"},
		IdempotencyKey: "report/" + object,
	})
	if err != nil {
		return "", &DeliveryError{Stage: StageEmail, Err: err}
	}
	return id, nil
}

// SyncCRM pushes the lead's contact to every configured sink.
func (d *Dispatcher) SyncCRM(ctx context.Context, l model.Lead) error {
	if err := crm.Sync(ctx, d.sinks, crm.MapContact(l)); err != nil {
		return &DeliveryError{Stage: StageCRM, Err: err}
	}
	return nil
}

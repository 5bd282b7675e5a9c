package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/model"
	"github.com/agentgrowth/leadflow/internal/notify"
)

// Job analyzes, renders and delivers the report for one lead.
type Job struct {
	lead    model.Lead
	persist bool
	svc     *Service
}

// NewJob creates the background job for lead. When persist is set the
// lead's delivery flags are written after dispatch.
func (s *Service) NewJob(lead model.Lead, persist bool) *Job {
	return &Job{lead: lead, persist: persist, svc: s}
}

// Name implements worker.Job.
func (j *Job) Name() string {
	if j.lead.ID == "" {
		return "report"
	}
	return "report:" + j.lead.ID
}

// Run implements worker.Job.
func (j *Job) Run(ctx context.Context) error {
	_, err := j.Deliver(ctx)
	return err
}

// Deliver runs the job and returns the dispatch outcome. The returned error
// joins every delivery and bookkeeping failure.
func (j *Job) Deliver(ctx context.Context) (notify.Outcome, error) {
	log := zap.L().With(zap.String("lead_id", j.lead.ID))
	start := time.Now()

	result := analysis.Analyze(j.lead)

	doc, err := j.svc.renderer.Render(j.lead, result)
	if err != nil {
		log.Error("pipeline: render failed", zap.Error(err))
		out := notify.Outcome{EmailErr: &notify.DeliveryError{Stage: notify.StageRender, Err: err}}
		out.CRMErr = j.svc.dispatcher.SyncCRM(ctx, j.lead)
		return out, errors.Join(out.EmailErr, out.CRMErr, j.record(ctx, out))
	}

	out := j.svc.dispatcher.Dispatch(ctx, notify.Delivery{
		Lead:     j.lead,
		Analysis: result,
		Document: doc,
	})
	recordErr := j.record(ctx, out)

	log.Info("pipeline: job complete",
		zap.Bool("delivered", out.Delivered()),
		zap.Bool("crm_synced", out.CRMSynced()),
		zap.Bool("fallback", doc.Fallback),
		zap.Int("pages", doc.Pages),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return out, errors.Join(out.EmailErr, out.CRMErr, recordErr)
}

// record writes the delivery flags. Both report flags take the email
// branch result in one update so no partial state is stored.
func (j *Job) record(ctx context.Context, out notify.Outcome) error {
	if !j.persist {
		return nil
	}
	delivered := out.Delivered()
	var errs []error
	if err := j.svc.store.UpdateDeliveryFlags(ctx, j.lead.ID, delivered, delivered); err != nil {
		errs = append(errs, eris.Wrap(err, "pipeline: update delivery flags"))
	}
	if err := j.svc.store.UpdateCRMSynced(ctx, j.lead.ID, out.CRMSynced()); err != nil {
		errs = append(errs, eris.Wrap(err, "pipeline: update crm synced"))
	}
	return errors.Join(errs...)
}

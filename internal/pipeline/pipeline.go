// Package pipeline orchestrates lead intake: the synchronous submit path and
// the background analysis, report and delivery job.
package pipeline

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/model"
	"github.com/agentgrowth/leadflow/internal/notify"
	"github.com/agentgrowth/leadflow/internal/ratelimit"
	"github.com/agentgrowth/leadflow/internal/report"
	"github.com/agentgrowth/leadflow/internal/store"
	"github.com/agentgrowth/leadflow/internal/worker"
)

// Queue accepts background jobs without blocking.
type Queue interface {
	Submit(ctx context.Context, job worker.Job) error
}

// Renderer produces the report document.
type Renderer interface {
	Render(l model.Lead, r analysis.Result) (report.Document, error)
}

// Dispatcher delivers a rendered report and syncs the CRM.
type Dispatcher interface {
	Dispatch(ctx context.Context, d notify.Delivery) notify.Outcome
	SyncCRM(ctx context.Context, l model.Lead) error
}

// Meta describes the request a submission arrived on.
type Meta struct {
	Identity  string
	UserAgent string
}

// Accepted is the result of a successful submission.
type Accepted struct {
	LeadID string
	// Bot is set when the honeypot tripped; nothing was stored or queued.
	Bot bool
}

// TriggerRequest is a report request with an optional existing lead id.
type TriggerRequest struct {
	intake.Submission
	LeadID string `json:"leadId"`
}

// Service wires the intake path to the background job.
type Service struct {
	store      store.Store
	limiter    ratelimit.Limiter
	queue      Queue
	renderer   Renderer
	dispatcher Dispatcher
}

// New creates a Service.
func New(st store.Store, limiter ratelimit.Limiter, queue Queue, renderer Renderer, dispatcher Dispatcher) *Service {
	return &Service{
		store:      st,
		limiter:    limiter,
		queue:      queue,
		renderer:   renderer,
		dispatcher: dispatcher,
	}
}

// Submit runs the synchronous path: rate limit, validate, persist, enqueue.
// It returns once the lead row exists; delivery happens in the background.
func (s *Service) Submit(ctx context.Context, sub intake.Submission, meta Meta) (Accepted, error) {
	log := zap.L().With(zap.String("identity", meta.Identity))

	allowed, err := s.limiter.Allow(ctx, meta.Identity)
	if err != nil {
		log.Warn("pipeline: rate limiter unavailable, allowing", zap.Error(err))
		allowed = true
	}
	if !allowed {
		log.Info("pipeline: submission rate limited")
		return Accepted{}, ErrRateLimited
	}

	res, err := intake.Validate(sub)
	if err != nil {
		return Accepted{}, err
	}
	if res.Bot {
		log.Info("pipeline: honeypot tripped, discarding submission")
		return Accepted{Bot: true}, nil
	}

	lead := res.Lead
	lead.SourceIP = meta.Identity
	lead.UserAgent = meta.UserAgent

	created, err := s.store.CreateLead(ctx, lead)
	if err != nil {
		log.Error("pipeline: create lead failed", zap.Error(err))
		return Accepted{}, &PersistenceError{Err: err}
	}

	s.enqueue(ctx, *created, true)
	return Accepted{LeadID: created.ID}, nil
}

// Trigger validates a report request, returns its analysis immediately and
// queues delivery. With a LeadID the job records delivery flags on that
// lead; without one no row is touched.
func (s *Service) Trigger(ctx context.Context, req TriggerRequest) (analysis.Result, error) {
	res, err := intake.Validate(req.Submission)
	if err != nil {
		return analysis.Result{}, err
	}
	if res.Bot {
		return analysis.Result{}, nil
	}

	lead := res.Lead
	persist := false
	if req.LeadID != "" {
		if _, err := s.store.GetLead(ctx, req.LeadID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return analysis.Result{}, &intake.ValidationError{
					Field:   "leadId",
					Code:    intake.CodeInvalid,
					Message: "lead does not exist",
				}
			}
			return analysis.Result{}, &PersistenceError{Err: err}
		}
		lead.ID = req.LeadID
		persist = true
	}

	result := analysis.Analyze(lead)
	s.enqueue(ctx, lead, persist)
	return result, nil
}

// Redeliver loads a stored lead and runs its job synchronously.
func (s *Service) Redeliver(ctx context.Context, leadID string) (notify.Outcome, error) {
	lead, err := s.store.GetLead(ctx, leadID)
	if err != nil {
		return notify.Outcome{}, eris.Wrap(err, "pipeline: load lead")
	}
	return s.NewJob(*lead, true).Deliver(ctx)
}

func (s *Service) enqueue(ctx context.Context, lead model.Lead, persist bool) {
	if err := s.queue.Submit(ctx, s.NewJob(lead, persist)); err != nil {
		zap.L().Error("pipeline: report job not queued",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}
}

// Package resource hands out time-limited download links for catalogue
// resources and records who downloaded what.
package resource

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/store"
	"github.com/agentgrowth/leadflow/pkg/objstore"
)

// DefaultTTL is how long a signed download link stays valid.
const DefaultTTL = 15 * time.Minute

// ErrNotFound is returned when the lead or the resource does not exist.
var ErrNotFound = eris.New("resource: not found")

// SigningError is returned when the download was recorded but no link
// could be signed for it.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("resource: sign link: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// Request is the download request body.
type Request struct {
	ResourceID string `json:"resourceId" validate:"required,uuid"`
	LeadID     string `json:"leadId" validate:"required,uuid"`
}

// Link is a signed download URL.
type Link struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service resolves download requests.
type Service struct {
	store    store.Store
	storage  objstore.Client
	bucket   string
	ttl      time.Duration
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Service that signs links for objects in bucket. A
// non-positive ttl selects DefaultTTL.
func New(st store.Store, storage objstore.Client, bucket string, ttl time.Duration) (*Service, error) {
	if bucket == "" {
		return nil, eris.New("resource: bucket is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > objstore.MaxPresignTTL {
		return nil, eris.Errorf("resource: ttl %s exceeds %s", ttl, objstore.MaxPresignTTL)
	}
	return &Service{
		store:    st,
		storage:  storage,
		bucket:   bucket,
		ttl:      ttl,
		validate: newValidator(),
		now:      time.Now,
	}, nil
}

// Download checks both ids, records the download and returns a signed link.
// Nothing is recorded when either row is missing.
func (s *Service) Download(ctx context.Context, req Request) (Link, error) {
	if err := s.check(req); err != nil {
		return Link{}, err
	}

	if _, err := s.store.GetLead(ctx, req.LeadID); err != nil {
		return Link{}, notFound(err, "lead "+req.LeadID)
	}
	res, err := s.store.GetResource(ctx, req.ResourceID)
	if err != nil {
		return Link{}, notFound(err, "resource "+req.ResourceID)
	}

	if _, err := s.store.RecordDownload(ctx, req.LeadID, req.ResourceID); err != nil {
		return Link{}, notFound(err, "record download")
	}

	issued := s.now()
	url, err := s.storage.PresignGet(ctx, s.bucket, strings.TrimPrefix(res.FilePath, "/"), s.ttl)
	if err != nil {
		zap.L().Error("resource: sign link failed",
			zap.String("resource_id", res.ID),
			zap.String("lead_id", req.LeadID),
			zap.Error(err),
		)
		return Link{}, &SigningError{Err: err}
	}

	zap.L().Info("resource: download issued",
		zap.String("resource_id", res.ID),
		zap.String("slug", res.Slug),
		zap.String("lead_id", req.LeadID),
	)
	return Link{URL: url, ExpiresAt: issued.Add(s.ttl).UTC()}, nil
}

func (s *Service) check(req Request) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return eris.Wrap(err, "resource: validate request")
	}
	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return &intake.ValidationError{Field: fe.Field(), Code: intake.CodeRequired, Message: fe.Field() + " is required"}
	}
	return &intake.ValidationError{Field: fe.Field(), Code: intake.CodeInvalid, Message: fe.Field() + " must be a UUID"}
}

func notFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return eris.Wrap(ErrNotFound, what)
	}
	return eris.Wrap(err, "resource: "+what)
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to interviewers.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogReportBuild records one report aggregation run.
func (s *Service) LogReportBuild(ctx context.Context, actorUserID, actorRole, ip, campaignID, metadata string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeReportBuild,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		CampaignID:  campaignID,
		Message:     "performance report built",
		Metadata:    metadata,
	})
}

// LogReportExport records a spreadsheet download.
func (s *Service) LogReportExport(ctx context.Context, actorUserID, actorRole, ip, campaignID string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeReportExport,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		CampaignID:  campaignID,
		Message:     "performance report exported",
	})
}

// LogRosterImport records a roster workbook upload.
func (s *Service) LogRosterImport(ctx context.Context, actorUserID, actorRole, ip, metadata string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeRosterImport,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		Message:     "interviewer roster imported",
		Metadata:    metadata,
	})
}

// LogStatusCallback records an inbound provider callback.
func (s *Service) LogStatusCallback(ctx context.Context, ip, campaignID, attemptID string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeStatusCallback,
		IPAddress:  ip,
		CampaignID: campaignID,
		AttemptID:  attemptID,
		Message:    "dialer status callback received",
	})
}

package roster

import (
	"context"
	"errors"
	"io"
	"time"

	"cati-platform/pkg/logger"
)

// Repository persists the interviewer roster.
type Repository interface {
	UpsertAll(ctx context.Context, interviewers []Interviewer) error
	ListManagedIDs(ctx context.Context, supervisorID string) ([]string, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Import parses an uploaded roster workbook and upserts every complete row
// under the given supervisor. The upsert is all-or-nothing; a half-imported
// roster would silently shrink a supervisor's access scope.
func (s *Service) Import(ctx context.Context, r io.Reader, supervisorID string) (ImportResult, error) {
	if s.repo == nil {
		return ImportResult{}, errors.New("roster: repository not configured")
	}
	interviewers, skipped, err := ParseWorkbook(r)
	if err != nil {
		return ImportResult{Skipped: skipped}, err
	}

	now := s.now().UTC()
	for i := range interviewers {
		interviewers[i].SupervisorID = supervisorID
		interviewers[i].CreatedAt = now
		interviewers[i].UpdatedAt = now
	}
	if err := s.repo.UpsertAll(ctx, interviewers); err != nil {
		return ImportResult{}, err
	}

	logger.From(ctx).Info("roster imported",
		"supervisor_id", supervisorID,
		"imported", len(interviewers),
		"skipped", skipped,
	)
	return ImportResult{Imported: len(interviewers), Skipped: skipped}, nil
}

// ManagedInterviewerIDs resolves a supervisor's access allow-list. A
// supervisor with no roster gets an empty non-nil slice, which downstream
// scoping treats as access to nobody.
func (s *Service) ManagedInterviewerIDs(ctx context.Context, supervisorID string) ([]string, error) {
	ids, err := s.repo.ListManagedIDs(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

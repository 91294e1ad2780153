package performance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cati-platform/internal/calls"
	"cati-platform/internal/config"
	"cati-platform/internal/survey"
	"cati-platform/internal/telephony"
	"cati-platform/pkg/logger"
)

var (
	ErrInvalidRequest = errors.New("performance: invalid request")
	ErrNotFound       = errors.New("performance: campaign not found")

	// ErrTimeout marks a request that exceeded the aggregation budget.
	// Retryable, unlike ErrNotFound.
	ErrTimeout = errors.New("performance: aggregation budget exceeded")
)

// Repository abstracts data access for the reconciliation engine.
//
// Implementations must return minimal projections, not full documents:
// campaigns hold millions of attempts and responses, and every method is
// expected to apply the given time range at the storage layer. Scope checks
// are still re-applied in memory before counting.
type Repository interface {
	CampaignExists(ctx context.Context, campaignID string) (bool, error)

	ListAttemptsByCampaign(ctx context.Context, campaignID string, from, to time.Time) ([]calls.CallAttempt, error)
	ListQueueEntryIDs(ctx context.Context, campaignID string) ([]string, error)
	ListAttemptsByQueueEntries(ctx context.Context, queueEntryIDs []string, from, to time.Time) ([]calls.CallAttempt, error)

	ListResponses(ctx context.Context, campaignID string, from, to time.Time) ([]survey.InterviewResponse, error)
	GetBatches(ctx context.Context, batchIDs []string) (map[string]survey.Batch, error)
}

type Service struct {
	repo Repository

	zone          *time.Location
	timeout       time.Duration
	failedDefault telephony.NumberCategory
	callLogLimit  int
}

func NewService(repo Repository, cfg config.ReportConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	offset := cfg.ZoneOffset
	if offset == 0 {
		offset = 5*time.Hour + 30*time.Minute
	}
	failedDefault := telephony.NumberCategory(cfg.FailedDefaultCategory)
	if failedDefault == "" {
		failedDefault = telephony.NumberNotReachable
	}
	limit := cfg.CallLogLimit
	if limit <= 0 {
		limit = 500
	}
	return &Service{
		repo:          repo,
		zone:          time.FixedZone("IST", int(offset/time.Second)),
		timeout:       timeout,
		failedDefault: failedDefault,
		callLogLimit:  limit,
	}
}

// ScopeFor exposes scope construction for callers that need the effective
// scope without running the aggregation, e.g. cache keying.
func (s *Service) ScopeFor(req Request) (Scope, error) {
	return BuildScope(req, s.zone)
}

// CampaignPerformance reconciles provider callbacks, queue linkage and
// interview responses into one consistent report for a campaign.
//
// The whole computation is bounded by the configured budget; exceeding it
// returns ErrTimeout rather than a partial result. Malformed records degrade
// to safe buckets and never abort the aggregation.
func (s *Service) CampaignPerformance(ctx context.Context, req Request) (CampaignReport, error) {
	if strings.TrimSpace(req.CampaignID) == "" {
		return CampaignReport{}, fmt.Errorf("%w: campaign_id required", ErrInvalidRequest)
	}
	if s.repo == nil {
		return CampaignReport{}, errors.New("performance: repository not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.repo.CampaignExists(ctx, req.CampaignID)
	if err != nil {
		return CampaignReport{}, s.mapErr(err)
	}
	if !exists {
		return CampaignReport{}, ErrNotFound
	}

	scope, err := BuildScope(req, s.zone)
	if err != nil {
		return CampaignReport{}, err
	}

	report := CampaignReport{
		CampaignID: req.CampaignID,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		Rows:       []PerformanceRow{},
		CallLog:    []AttemptSummary{},
	}
	if scope.IsEmpty() {
		// No access is a valid all-zero answer, not an error.
		return report, nil
	}

	responses, err := s.repo.ListResponses(ctx, req.CampaignID, scope.From, scope.To)
	if err != nil {
		return CampaignReport{}, s.mapErr(err)
	}

	batches, err := s.fetchBatches(ctx, responses)
	if err != nil {
		return CampaignReport{}, s.mapErr(err)
	}

	attempts, err := s.resolveAttempts(ctx, scope)
	if err != nil {
		return CampaignReport{}, s.mapErr(err)
	}
	report.TotalCallRecords = len(attempts)

	if err := ctx.Err(); err != nil {
		return CampaignReport{}, s.mapErr(err)
	}

	b := newRowBuilder()
	var resp responseTotals

	// Single pass over responses; scope is re-validated per record as
	// defense in depth against mis-joined rows.
	for _, r := range responses {
		if !scope.InWindow(r.CreatedAt) || !scope.AllowsInterviewer(r.InterviewerID) {
			continue
		}

		label := survey.ResolveOutcomeLabel(r)

		var batch *survey.Batch
		if r.BatchID != "" {
			if bt, ok := batches[r.BatchID]; ok {
				batch = &bt
			}
		}
		bucket := survey.ClassifyCompletion(survey.ParseApproval(r.ApprovalStatus), batch, r.IsSampleResponse, label)

		resp.count(label, r.TotalTimeSpentSeconds)

		if r.InterviewerID == "" {
			// Campaign totals only; no row to attribute to.
			continue
		}
		b.observe(r.InterviewerID, r.InterviewerName, r.InterviewerPhone, r.MemberID)
		countResponse(b.row(r.InterviewerID), label, bucket, r.TotalTimeSpentSeconds)
	}

	// Attempts contribute the attempt-only counters and the drill-down log.
	for _, a := range attempts {
		if !scope.InWindow(a.CreatedAt) {
			continue
		}

		interviewerID := b.interviewerFor(a)
		allowed := scope.AllowsInterviewer(interviewerID)

		if allowed && interviewerID != "" {
			b.observe(interviewerID, a.InterviewerName, a.FromNumber, "")
			if noResponseByTelecaller(a) {
				b.row(interviewerID).NoResponseByTelecaller++
			}
		}

		if scope.Restricted() && !allowed {
			continue
		}
		if len(report.CallLog) < s.callLogLimit {
			norm := telephony.NormalizeAttempt(a, s.failedDefault)
			name := a.InterviewerName
			if name == "" && interviewerID != "" {
				name = b.row(interviewerID).Name
			}
			report.CallLog = append(report.CallLog, AttemptSummary{
				ID:              a.ID,
				FromNumber:      a.FromNumber,
				ToNumber:        a.ToNumber,
				Outcome:         string(norm.Outcome),
				InterviewerName: name,
				DurationSeconds: a.TalkDurationSeconds,
				CreatedAt:       a.CreatedAt,
			})
		}
	}

	report.Rows = b.finalize()

	var rowDials, rowRinging, rowNotRinging, rowNotReceived int
	for i := range report.Rows {
		r := &report.Rows[i]
		rowDials += r.DialsAttempted
		rowRinging += r.Ringing
		rowNotRinging += r.NotRinging
		rowNotReceived += r.CallNotReceivedToTelecaller
	}

	// Row sums are preferred because they respect interviewer scope;
	// response-level computation fills in when the row set is empty.
	// Connected is always computed from raw responses to avoid drift.
	totalRinging := preferNonZero(rowRinging, resp.ringing)
	totalNotRinging := preferNonZero(rowNotRinging, resp.notRinging)

	report.CallerPerformance = CallerPerformance{
		TotalDials:       preferNonZero(rowDials, resp.dials),
		CallsAttended:    totalRinging,
		CallsConnected:   resp.connected,
		TotalTalkSeconds: resp.talkSeconds,
		TotalTalkTime:    FormatDuration(resp.talkSeconds),
	}
	report.NumberStatus = NumberStatus{
		CallNotReceived: preferNonZero(rowNotReceived, resp.callNotReceived),
		Ringing:         totalRinging - totalNotRinging,
		NotRinging:      totalNotRinging,
	}
	report.RingStatus = RingStatus{
		Connected:    resp.connected,
		NotConnected: resp.dials - resp.connected,
	}

	if err := ctx.Err(); err != nil {
		return CampaignReport{}, s.mapErr(err)
	}

	logger.From(ctx).Debug("campaign performance computed",
		"campaign_id", req.CampaignID,
		"rows", len(report.Rows),
		"responses", resp.dials,
		"call_records", report.TotalCallRecords,
	)
	return report, nil
}

// resolveAttempts merges the two attempt discovery paths: direct campaign
// linkage, then queue-entry linkage for attempts the first path missed. An
// attempt id appears at most once in the result no matter how many paths
// found it.
func (s *Service) resolveAttempts(ctx context.Context, scope Scope) ([]calls.CallAttempt, error) {
	direct, err := s.repo.ListAttemptsByCampaign(ctx, scope.CampaignID, scope.From, scope.To)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(direct))
	out := make([]calls.CallAttempt, 0, len(direct))
	for _, a := range direct {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}

	queueIDs, err := s.repo.ListQueueEntryIDs(ctx, scope.CampaignID)
	if err != nil {
		return nil, err
	}
	if len(queueIDs) > 0 {
		viaQueue, err := s.repo.ListAttemptsByQueueEntries(ctx, queueIDs, scope.From, scope.To)
		if err != nil {
			return nil, err
		}
		for _, a := range viaQueue {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}

	logger.From(ctx).Debug("call records resolved",
		"campaign_id", scope.CampaignID,
		"direct", len(direct),
		"total", len(out),
	)
	return out, nil
}

func (s *Service) fetchBatches(ctx context.Context, responses []survey.InterviewResponse) (map[string]survey.Batch, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, r := range responses {
		if r.BatchID == "" {
			continue
		}
		if _, ok := seen[r.BatchID]; ok {
			continue
		}
		seen[r.BatchID] = struct{}{}
		ids = append(ids, r.BatchID)
	}
	if len(ids) == 0 {
		return map[string]survey.Batch{}, nil
	}
	return s.repo.GetBatches(ctx, ids)
}

// noResponseByTelecaller holds when the interviewer's leg never picked up,
// flagged by the provider directly or via the no-answer originator code. The
// code compares numerically so zero-padded variants like "07" still match.
func noResponseByTelecaller(a calls.CallAttempt) bool {
	if a.HangupByOriginator {
		return true
	}
	code, err := strconv.Atoi(strings.TrimSpace(a.StatusCode))
	return err == nil && code == 7
}

func (s *Service) mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

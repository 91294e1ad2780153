package performance

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cati-platform/internal/calls"
	"cati-platform/internal/config"
	"cati-platform/internal/survey"
)

func newTestService(repo Repository) *Service {
	return NewService(repo, config.ReportConfig{})
}

func testResponse(id, interviewerID, label string, approval string, secs int) survey.InterviewResponse {
	return survey.InterviewResponse{
		ID:                    id,
		CampaignID:            "c1",
		InterviewerID:         interviewerID,
		InterviewerName:       "Agent " + interviewerID,
		InterviewerPhone:      "+9190000" + interviewerID,
		CallOutcome:           label,
		ApprovalStatus:        approval,
		TotalTimeSpentSeconds: secs,
		CreatedAt:             time.Date(2026, 1, 10, 11, 0, 0, 0, ist),
	}
}

func TestCampaignPerformanceRowCounters(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddResponse(testResponse("r1", "i1", "call_connected", "approved", 120))
	repo.AddResponse(testResponse("r2", "i1", "switched_off", "", 0))
	repo.AddResponse(testResponse("r3", "i1", "didnt_get_call", "", 0))

	svc := newTestService(repo)
	report, err := svc.CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}

	row := report.Rows[0]
	if row.DialsAttempted != 3 {
		t.Fatalf("DialsAttempted = %d, want 3", row.DialsAttempted)
	}
	if row.CallsConnected != 1 {
		t.Fatalf("CallsConnected = %d, want 1", row.CallsConnected)
	}
	if row.Approved != 1 || row.Completed != 1 {
		t.Fatalf("Approved = %d, Completed = %d, want 1/1", row.Approved, row.Completed)
	}
	if row.Ringing != 2 {
		t.Fatalf("Ringing = %d, want 2", row.Ringing)
	}
	if row.NotRinging != 1 {
		t.Fatalf("NotRinging = %d, want 1", row.NotRinging)
	}
	if row.CallNotReceivedToTelecaller != 1 {
		t.Fatalf("CallNotReceivedToTelecaller = %d, want 1", row.CallNotReceivedToTelecaller)
	}
	if row.SwitchOff != 1 {
		t.Fatalf("SwitchOff = %d, want 1", row.SwitchOff)
	}
	if row.FormDuration != "0:02:00" {
		t.Fatalf("FormDuration = %q, want 0:02:00", row.FormDuration)
	}

	// Switched-off phones counted in both ringing and not-ringing must
	// cancel so the three buckets still sum to the dial total.
	got := row.Ringing + row.NotRinging + row.CallNotReceivedToTelecaller - row.SwitchOff
	if got != row.DialsAttempted {
		t.Fatalf("accounting identity broken: %d != %d", got, row.DialsAttempted)
	}
}

func TestCampaignPerformanceAccountingIdentity(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	labels := []string{
		"call_connected", "busy", "didnt_pick_up", "switched_off",
		"not_reachable", "number_doesnt_exist", "didnt_get_call",
		"switched_off", "busy", "call_connected",
	}
	for i, l := range labels {
		repo.AddResponse(testResponse(string(rune('a'+i)), "i1", l, "", 10))
	}

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	row := report.Rows[0]
	got := row.Ringing + row.NotRinging + row.CallNotReceivedToTelecaller - row.SwitchOff
	if got != row.DialsAttempted {
		t.Fatalf("identity: ringing %d + notRinging %d + notReceived %d - switchOff %d = %d, want dials %d",
			row.Ringing, row.NotRinging, row.CallNotReceivedToTelecaller, row.SwitchOff, got, row.DialsAttempted)
	}
}

func TestCampaignPerformanceCompletionExclusive(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddBatch(survey.Batch{ID: "b1", Status: survey.BatchQueuedForQC})
	repo.AddBatch(survey.Batch{ID: "b2", Status: survey.BatchCollecting})

	approvedResp := testResponse("r1", "i1", "call_connected", "approved", 60)
	rejectedResp := testResponse("r2", "i1", "call_connected", "rejected", 60)
	queuedResp := testResponse("r3", "i1", "call_connected", "pending_qc", 60)
	queuedResp.BatchID = "b1"
	collectingResp := testResponse("r4", "i1", "call_connected", "pending_qc", 60)
	collectingResp.BatchID = "b2"
	incompleteResp := testResponse("r5", "i1", "call_connected", "", 60)
	noneResp := testResponse("r6", "i1", "busy", "", 0)
	for _, r := range []survey.InterviewResponse{approvedResp, rejectedResp, queuedResp, collectingResp, incompleteResp, noneResp} {
		repo.AddResponse(r)
	}

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	row := report.Rows[0]

	if row.Approved != 1 || row.Rejected != 1 || row.UnderReviewQueue != 1 ||
		row.ProcessingInBatch != 1 || row.Incomplete != 1 {
		t.Fatalf("buckets = approved %d rejected %d underReview %d processing %d incomplete %d, want all 1",
			row.Approved, row.Rejected, row.UnderReviewQueue, row.ProcessingInBatch, row.Incomplete)
	}
	// Every response lands in at most one bucket; the busy response with no
	// approval record lands in none.
	total := row.Approved + row.Rejected + row.UnderReviewQueue + row.ProcessingInBatch + row.Incomplete
	if total != row.DialsAttempted-1 {
		t.Fatalf("bucket total = %d, want %d", total, row.DialsAttempted-1)
	}
	if row.Completed != 4 {
		t.Fatalf("Completed = %d, want 4 (all but incomplete and none)", row.Completed)
	}
}

func TestCampaignPerformanceDedupsAttempts(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddQueueEntry(calls.QueueEntry{ID: "q1", CampaignID: "c1"})

	// One attempt reachable through both discovery paths, one per path.
	repo.AddAttempt(calls.CallAttempt{ID: "a1", CampaignID: "c1", QueueEntryID: "q1", StatusCode: "3"})
	repo.AddAttempt(calls.CallAttempt{ID: "a2", CampaignID: "c1", StatusCode: "6"})
	repo.AddAttempt(calls.CallAttempt{ID: "a3", QueueEntryID: "q1", StatusCode: "17"})

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if report.TotalCallRecords != 3 {
		t.Fatalf("TotalCallRecords = %d, want 3", report.TotalCallRecords)
	}
	if len(report.CallLog) != 3 {
		t.Fatalf("CallLog = %d entries, want 3", len(report.CallLog))
	}
}

func TestCampaignPerformanceNoResponseByTelecaller(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	resp := testResponse("r1", "i1", "call_connected", "approved", 30)
	resp.InterviewerPhone = "+911234"
	repo.AddResponse(resp)

	// Attempt carries no interviewer reference; resolution goes through the
	// originating number registered by the response.
	repo.AddAttempt(calls.CallAttempt{
		ID: "a1", CampaignID: "c1", FromNumber: "+911234",
		StatusCode: "7", HangupByOriginator: true,
	})
	// Zero-padded provider variant of the same code.
	repo.AddAttempt(calls.CallAttempt{
		ID: "a2", CampaignID: "c1", FromNumber: "+911234",
		StatusCode: "07",
	})

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
	if report.Rows[0].NoResponseByTelecaller != 2 {
		t.Fatalf("NoResponseByTelecaller = %d, want 2", report.Rows[0].NoResponseByTelecaller)
	}
}

func TestCampaignPerformanceAccessScope(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddResponse(testResponse("r1", "i1", "call_connected", "approved", 30))
	repo.AddResponse(testResponse("r2", "i2", "call_connected", "approved", 30))

	svc := newTestService(repo)

	report, err := svc.CampaignPerformance(context.Background(), Request{
		CampaignID:           "c1",
		AccessInterviewerIDs: []string{"i1"},
	})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].InterviewerID != "i1" {
		t.Fatalf("rows = %+v, want only i1", report.Rows)
	}
	if report.CallerPerformance.CallsConnected != 1 {
		t.Fatalf("CallsConnected = %d, want 1 (scoped)", report.CallerPerformance.CallsConnected)
	}

	// No managed interviewers is a valid all-zero answer, not an error.
	report, err = svc.CampaignPerformance(context.Background(), Request{
		CampaignID:           "c1",
		AccessInterviewerIDs: []string{},
	})
	if err != nil {
		t.Fatalf("CampaignPerformance empty access: %v", err)
	}
	if len(report.Rows) != 0 || report.CallerPerformance.TotalDials != 0 {
		t.Fatalf("empty access should zero the report, got %+v", report)
	}
}

func TestCampaignPerformanceResponseLevelFallback(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	// No interviewer references anywhere; rows stay empty but the campaign
	// summary still reflects the responses.
	repo.AddResponse(testResponse("r1", "", "call_connected", "", 45))
	repo.AddResponse(testResponse("r2", "", "busy", "", 15))

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(report.Rows))
	}
	if report.CallerPerformance.TotalDials != 2 {
		t.Fatalf("TotalDials = %d, want 2 via response-level fallback", report.CallerPerformance.TotalDials)
	}
	if report.CallerPerformance.CallsConnected != 1 {
		t.Fatalf("CallsConnected = %d, want 1", report.CallerPerformance.CallsConnected)
	}
	if report.CallerPerformance.TotalTalkTime != "0:01:00" {
		t.Fatalf("TotalTalkTime = %q, want 0:01:00", report.CallerPerformance.TotalTalkTime)
	}
	if report.RingStatus.Connected != 1 || report.RingStatus.NotConnected != 1 {
		t.Fatalf("RingStatus = %+v, want 1/1", report.RingStatus)
	}
}

func TestCampaignPerformanceIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddResponse(testResponse("r1", "i2", "call_connected", "approved", 30))
	repo.AddResponse(testResponse("r2", "i1", "busy", "", 0))
	repo.AddAttempt(calls.CallAttempt{ID: "a1", CampaignID: "c1", StatusCode: "3", CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, ist)})

	svc := newTestService(repo)
	req := Request{CampaignID: "c1", FromDate: "2026-01-10", ToDate: "2026-01-10", InterviewerIDs: []string{"i1", "i2"}}

	first, err := svc.CampaignPerformance(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.CampaignPerformance(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ across identical runs:\n%+v\n%+v", first, second)
	}
}

func TestCampaignPerformanceDateWindow(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	in := testResponse("r1", "i1", "call_connected", "approved", 30)
	in.CreatedAt = time.Date(2026, 1, 10, 23, 59, 0, 0, ist)
	out := testResponse("r2", "i1", "call_connected", "approved", 30)
	out.CreatedAt = time.Date(2026, 1, 11, 0, 0, 1, 0, ist)
	repo.AddResponse(in)
	repo.AddResponse(out)

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{
		CampaignID: "c1", FromDate: "2026-01-10", ToDate: "2026-01-10",
	})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].DialsAttempted != 1 {
		t.Fatalf("window should admit exactly one response, got %+v", report.Rows)
	}
}

func TestCampaignPerformanceErrors(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	svc := newTestService(repo)

	if _, err := svc.CampaignPerformance(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing campaign id: err = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.CampaignPerformance(context.Background(), Request{CampaignID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown campaign: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.CampaignPerformance(context.Background(), Request{CampaignID: "c1", FromDate: "2026-01-10"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("half-open dates: err = %v, want ErrInvalidRequest", err)
	}
}

// stalledRepo blocks response listing until the request deadline fires,
// standing in for a storage scan that outlives the wall-clock limit.
type stalledRepo struct {
	*MemoryRepo
}

func (r stalledRepo) ListResponses(ctx context.Context, campaignID string, from, to time.Time) ([]survey.InterviewResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCampaignPerformanceTimeout(t *testing.T) {
	mem := NewMemoryRepo()
	mem.AddCampaign("c1")
	svc := NewService(stalledRepo{mem}, config.ReportConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestCampaignPerformanceRowOrderIsDiscoveryOrder(t *testing.T) {
	repo := NewMemoryRepo()
	repo.AddCampaign("c1")
	repo.AddResponse(testResponse("r1", "i9", "busy", "", 0))
	repo.AddResponse(testResponse("r2", "i1", "busy", "", 0))
	repo.AddResponse(testResponse("r3", "i9", "busy", "", 0))

	report, err := newTestService(repo).CampaignPerformance(context.Background(), Request{CampaignID: "c1"})
	if err != nil {
		t.Fatalf("CampaignPerformance: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Rows))
	}
	if report.Rows[0].InterviewerID != "i9" || report.Rows[0].Seq != 1 {
		t.Fatalf("first row = %+v, want i9 with seq 1", report.Rows[0])
	}
	if report.Rows[1].InterviewerID != "i1" || report.Rows[1].Seq != 2 {
		t.Fatalf("second row = %+v, want i1 with seq 2", report.Rows[1])
	}
}

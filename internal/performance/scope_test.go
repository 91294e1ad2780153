package performance

import (
	"errors"
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

func TestBuildScopeDateWindow(t *testing.T) {
	req := Request{CampaignID: "c1", FromDate: "2026-01-10", ToDate: "2026-01-11"}
	scope, err := BuildScope(req, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}

	wantFrom := time.Date(2026, 1, 10, 0, 0, 0, 0, ist)
	if !scope.From.Equal(wantFrom) {
		t.Fatalf("From = %v, want %v", scope.From, wantFrom)
	}
	wantTo := time.Date(2026, 1, 11, 23, 59, 59, 999_000_000, ist)
	if !scope.To.Equal(wantTo) {
		t.Fatalf("To = %v, want %v", scope.To, wantTo)
	}

	if !scope.InWindow(wantFrom) {
		t.Fatalf("window start should be inclusive")
	}
	if !scope.InWindow(wantTo) {
		t.Fatalf("window end should be inclusive")
	}
	if scope.InWindow(wantFrom.Add(-time.Millisecond)) {
		t.Fatalf("record before window should be excluded")
	}
	if scope.InWindow(wantTo.Add(time.Millisecond)) {
		t.Fatalf("record after window should be excluded")
	}
	if !scope.InWindow(time.Time{}) {
		t.Fatalf("zero timestamp should pass the window")
	}
}

func TestBuildScopeRequiresBothDates(t *testing.T) {
	for _, req := range []Request{
		{CampaignID: "c1", FromDate: "2026-01-10"},
		{CampaignID: "c1", ToDate: "2026-01-10"},
	} {
		if _, err := BuildScope(req, ist); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("half-open range: err = %v, want ErrInvalidRequest", err)
		}
	}
	if _, err := BuildScope(Request{CampaignID: "c1", FromDate: "2026-01-11", ToDate: "2026-01-10"}, ist); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("reversed range: err = %v, want ErrInvalidRequest", err)
	}
}

func TestScopeAccessIntersectsInclude(t *testing.T) {
	req := Request{
		CampaignID:           "c1",
		InterviewerIDs:       []string{"a", "b", "c"},
		AccessInterviewerIDs: []string{"b", "c", "d"},
	}
	scope, err := BuildScope(req, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}

	// The visible set is a subset of both lists, never a union.
	for _, id := range []string{"b", "c"} {
		if !scope.AllowsInterviewer(id) {
			t.Fatalf("interviewer %q should be in scope", id)
		}
	}
	for _, id := range []string{"a", "d", "e"} {
		if scope.AllowsInterviewer(id) {
			t.Fatalf("interviewer %q should not be in scope", id)
		}
	}
}

func TestScopeAccessReplacesAbsentInclude(t *testing.T) {
	scope, err := BuildScope(Request{CampaignID: "c1", AccessInterviewerIDs: []string{"a"}}, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if !scope.AllowsInterviewer("a") || scope.AllowsInterviewer("b") {
		t.Fatalf("access list should act as the include list")
	}
	if scope.AllowsInterviewer("") {
		t.Fatalf("unresolved interviewer should be excluded under a restriction")
	}
}

func TestScopeEmptyAccessList(t *testing.T) {
	scope, err := BuildScope(Request{CampaignID: "c1", AccessInterviewerIDs: []string{}}, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if !scope.IsEmpty() {
		t.Fatalf("empty access list should produce an empty scope")
	}
	if scope.AllowsInterviewer("a") || scope.InWindow(time.Now()) {
		t.Fatalf("empty scope should admit nothing")
	}
}

func TestScopeDisjointAccessAndInclude(t *testing.T) {
	req := Request{
		CampaignID:           "c1",
		InterviewerIDs:       []string{"a"},
		AccessInterviewerIDs: []string{"b"},
	}
	scope, err := BuildScope(req, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if !scope.IsEmpty() {
		t.Fatalf("disjoint access and include should produce an empty scope")
	}
}

func TestScopeExcludeAppliesUnderAccess(t *testing.T) {
	req := Request{
		CampaignID:           "c1",
		InterviewerIDs:       []string{"a"},
		Mode:                 FilterExclude,
		AccessInterviewerIDs: []string{"a", "b"},
	}
	scope, err := BuildScope(req, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if scope.AllowsInterviewer("a") {
		t.Fatalf("excluded interviewer should stay excluded despite access grant")
	}
	if !scope.AllowsInterviewer("b") {
		t.Fatalf("interviewer b should remain in scope")
	}
}

func TestScopeUnrestricted(t *testing.T) {
	scope, err := BuildScope(Request{CampaignID: "c1"}, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if scope.Restricted() {
		t.Fatalf("no filters should mean unrestricted")
	}
	if !scope.AllowsInterviewer("anyone") || !scope.AllowsInterviewer("") {
		t.Fatalf("unrestricted scope should admit all interviewers")
	}
}

func TestScopeFingerprintStable(t *testing.T) {
	a, err := BuildScope(Request{CampaignID: "c1", InterviewerIDs: []string{"x", "y"}}, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	b, err := BuildScope(Request{CampaignID: "c1", InterviewerIDs: []string{"y", "x"}}, ist)
	if err != nil {
		t.Fatalf("BuildScope: %v", err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint should not depend on filter order: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

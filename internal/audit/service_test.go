package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Message: "no type"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogReportBuild(context.Background(), "u1", "supervisor", "1.2.3.4", "c1", "{}"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event")
	}
	if evs[0].IPAddress != "1.2.3.4" {
		t.Fatalf("expected ip captured")
	}
	if evs[0].Type != EventTypeReportBuild {
		t.Fatalf("expected report_build")
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp filled in")
	}
}

func TestService_LogStatusCallback(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogStatusCallback(context.Background(), "5.6.7.8", "c1", "a1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	evs := repo.EventsOfType(EventTypeStatusCallback)
	if len(evs) != 1 || evs[0].AttemptID != "a1" {
		t.Fatalf("events = %+v", evs)
	}
}

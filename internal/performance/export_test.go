package performance

import (
	"testing"
)

func TestExportWorkbook(t *testing.T) {
	report := CampaignReport{
		CampaignID: "c1",
		FromDate:   "2026-01-10",
		ToDate:     "2026-01-11",
		Rows: []PerformanceRow{
			{
				Seq: 1, InterviewerID: "i1", Name: "Asha", Phone: "+911234",
				DialsAttempted: 5, CallsConnected: 2, Completed: 2, Approved: 1,
				FormDuration: "0:05:00", Ringing: 3, NotRinging: 2, SwitchOff: 1,
			},
		},
		CallerPerformance: CallerPerformance{TotalDials: 5, CallsConnected: 2, TotalTalkTime: "0:05:00"},
		TotalCallRecords:  7,
	}

	f, err := ExportWorkbook(report)
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetRows, "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "S.No" {
		t.Fatalf("header A1 = %q, want S.No", got)
	}
	got, err = f.GetCellValue(sheetRows, "C2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Asha" {
		t.Fatalf("C2 = %q, want Asha", got)
	}
	got, err = f.GetCellValue(sheetSummary, "B1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "c1" {
		t.Fatalf("summary B1 = %q, want c1", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		secs int
		want string
	}{
		{0, "0:00:00"},
		{120, "0:02:00"},
		{3599, "0:59:59"},
		{3600, "1:00:00"},
		{37230, "10:20:30"},
		{-5, "0:00:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.secs); got != c.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

package performance

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetRows    = "Interviewer Performance"
	sheetSummary = "Campaign Summary"
)

var exportHeader = []string{
	"S.No",
	"Interviewer ID",
	"Name",
	"Phone",
	"Member ID",
	"Dials Attempted",
	"Calls Connected",
	"Completed",
	"Approved",
	"Rejected",
	"Under Review",
	"Processing In Batch",
	"Incomplete",
	"Form Duration",
	"Ringing",
	"Not Ringing",
	"Call Not Received",
	"Switch Off",
	"Not Reachable",
	"Number Doesn't Exist",
	"No Response By Telecaller",
}

// ExportWorkbook renders a report as a spreadsheet for supervisors who
// work outside the dashboard. Column order mirrors the dashboard table.
func ExportWorkbook(report CampaignReport) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetRows)

	if err := writeRow(f, sheetRows, 1, toCells(exportHeader)); err != nil {
		return nil, err
	}
	for i, r := range report.Rows {
		cells := []any{
			r.Seq,
			r.InterviewerID,
			r.Name,
			r.Phone,
			r.MemberID,
			r.DialsAttempted,
			r.CallsConnected,
			r.Completed,
			r.Approved,
			r.Rejected,
			r.UnderReviewQueue,
			r.ProcessingInBatch,
			r.Incomplete,
			r.FormDuration,
			r.Ringing,
			r.NotRinging,
			r.CallNotReceivedToTelecaller,
			r.SwitchOff,
			r.NumberNotReachable,
			r.NumberDoesNotExist,
			r.NoResponseByTelecaller,
		}
		if err := writeRow(f, sheetRows, i+2, cells); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	summary := [][]any{
		{"Campaign", report.CampaignID},
		{"From", report.FromDate},
		{"To", report.ToDate},
		{"Total Dials", report.CallerPerformance.TotalDials},
		{"Calls Attended", report.CallerPerformance.CallsAttended},
		{"Calls Connected", report.CallerPerformance.CallsConnected},
		{"Total Talk Time", report.CallerPerformance.TotalTalkTime},
		{"Call Not Received", report.NumberStatus.CallNotReceived},
		{"Ringing", report.NumberStatus.Ringing},
		{"Not Ringing", report.NumberStatus.NotRinging},
		{"Ring Connected", report.RingStatus.Connected},
		{"Ring Not Connected", report.RingStatus.NotConnected},
		{"Total Call Records", report.TotalCallRecords},
	}
	for i, cells := range summary {
		if err := writeRow(f, sheetSummary, i+1, cells); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("export: cell %d,%d: %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toCells(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

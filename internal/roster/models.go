package roster

import (
	"errors"
	"time"
)

var (
	ErrEmptyWorkbook = errors.New("roster: workbook has no data rows")
	ErrMissingColumn = errors.New("roster: required column missing")
)

// Interviewer is one field agent from the uploaded roster sheet.
type Interviewer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	SupervisorID string    `json:"supervisor_id,omitempty"`
	JoinedOn     string    `json:"joined_on,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ImportResult summarizes one roster upload.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

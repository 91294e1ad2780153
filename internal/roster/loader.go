package roster

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Roster sheets come from field offices as plain Excel exports. Headers vary
// in spacing and case, so columns are matched by fuzzy header scan rather
// than fixed position.
const (
	headerName  = "agent name"
	headerPhone = "contact number"
	headerID    = "id"
)

// ParseWorkbook reads the first sheet of an uploaded roster workbook.
// Rows missing any of name, phone or id are skipped, not failed; offices
// routinely leave half-filled rows at the bottom of the sheet.
func ParseWorkbook(r io.Reader) ([]Interviewer, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, 0, ErrEmptyWorkbook
	}

	nameIdx, phoneIdx, idIdx, joinedIdx := -1, -1, -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, headerName) || l == "name":
			if nameIdx == -1 {
				nameIdx = i
			}
		case strings.Contains(l, headerPhone) || strings.Contains(l, "phone"):
			if phoneIdx == -1 {
				phoneIdx = i
			}
		case l == headerID || strings.Contains(l, "agent id"):
			if idIdx == -1 {
				idIdx = i
			}
		case strings.Contains(l, "join") || strings.Contains(l, "date"):
			if joinedIdx == -1 {
				joinedIdx = i
			}
		}
	}
	if nameIdx == -1 || phoneIdx == -1 || idIdx == -1 {
		return nil, 0, fmt.Errorf("%w: need %q, %q and %q", ErrMissingColumn, headerName, headerPhone, headerID)
	}

	var (
		out     []Interviewer
		skipped int
	)
	for _, row := range rows[1:] {
		name := cell(row, nameIdx)
		phone := cell(row, phoneIdx)
		id := cell(row, idIdx)
		if name == "" || phone == "" || id == "" {
			skipped++
			continue
		}
		out = append(out, Interviewer{
			ID:       id,
			Name:     name,
			Phone:    phone,
			JoinedOn: civilDate(cell(row, joinedIdx)),
		})
	}
	if len(out) == 0 {
		return nil, skipped, ErrEmptyWorkbook
	}
	return out, skipped, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// civilDate folds the date renderings excel produces into YYYY-MM-DD.
// Unparseable values pass through untouched.
func civilDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{
		"2006-01-02",
		"01-02-06",
		"1/2/06",
		"01/02/2006",
		"2006-01-02 15:04:05",
		"2-Jan-06",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

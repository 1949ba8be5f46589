// Package report exports the evaluation history to a spreadsheet.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/cv-evaluator/internal/history"
	"github.com/spigell/cv-evaluator/internal/result"
)

const (
	summarySheet = "Summary"
	historySheet = "History"
	latestSheet  = "Latest"

	timeLayout = "2006-01-02 15:04:05"
)

var historyHeaders = []string{"#", "Timestamp", "File", "Candidate", "Score", "Classification", "Status"}

// ExportXLSX writes the summary statistics, the history and the latest
// result to path, adding the .xlsx extension when missing. stats and latest
// may be nil. It returns the written path.
func ExportXLSX(path string, entries []history.Entry, stats *history.Stats, latest *result.EvaluationResult) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{historySheet, latestSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create %s sheet: %w", name, err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", err
	}

	if err := writeSummary(f, styles, len(entries), stats); err != nil {
		return "", fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeHistory(f, styles, entries); err != nil {
		return "", fmt.Errorf("write history sheet: %w", err)
	}
	if err := writeLatest(f, styles, latest); err != nil {
		return "", fmt.Errorf("write latest sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report %q: %w", path, err)
	}
	return path, nil
}

type styles struct {
	header int
	label  int
	pass   int
	fail   int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		s   styles
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("label style: %w", err)
	}
	if s.pass, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("pass style: %w", err)
	}
	if s.fail, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("fail style: %w", err)
	}
	return s, nil
}

func writeSummary(f *excelize.File, st styles, total int, stats *history.Stats) error {
	rows := [][]any{
		{"Generated", time.Now().Format(timeLayout)},
		{"Recorded evaluations", total},
	}
	if stats != nil {
		rows = append(rows,
			[]any{"Successful evaluations", stats.Count},
			[]any{"Average score", stats.Mean},
			[]any{"Highest score", stats.Max},
			[]any{"Lowest score", stats.Min},
			[]any{"Approved (score >= " + strconv.Itoa(result.PassingScore) + ")", stats.PassCount},
			[]any{"Approval rate (%)", stats.PassRate},
		)
	} else {
		rows = append(rows, []any{"Successful evaluations", 0})
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 25); err != nil {
		return err
	}
	return writeLabelled(f, summarySheet, st, rows)
}

func writeHistory(f *excelize.File, st styles, entries []history.Entry) error {
	if err := f.SetColWidth(historySheet, "B", "D", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "F", "F", 16); err != nil {
		return err
	}

	header := make([]any, len(historyHeaders))
	for i, h := range historyHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(historyHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(historySheet, "A1", last, st.header); err != nil {
		return err
	}

	for i, e := range entries {
		rowNum := i + 2
		status := "OK"
		if !e.Success {
			status = "Failed"
		}
		row := []any{i + 1, e.Timestamp.Format(timeLayout), e.Filename, e.CandidateName, e.Score, e.Classification, status}

		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(historySheet, start, &row); err != nil {
			return err
		}

		style := st.fail
		if e.Success && e.Score >= result.PassingScore {
			style = st.pass
		}
		scoreCell, err := excelize.CoordinatesToCellName(5, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(historySheet, scoreCell, scoreCell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeLatest(f *excelize.File, st styles, r *result.EvaluationResult) error {
	if err := f.SetColWidth(latestSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(latestSheet, "B", "B", 80); err != nil {
		return err
	}
	if r == nil {
		return writeLabelled(f, latestSheet, st, [][]any{{"Result", "No evaluation recorded"}})
	}

	years := "-"
	if r.ExperienceYears != nil {
		years = strconv.FormatFloat(*r.ExperienceYears, 'f', -1, 64)
	}

	return writeLabelled(f, latestSheet, st, [][]any{
		{"File", r.Filename},
		{"Candidate", r.CandidateName},
		{"Email", r.CandidateEmail},
		{"Phone", r.CandidatePhone},
		{"Score", r.Score},
		{"Classification", r.Classification},
		{"Technical", r.SubScores.Technical},
		{"Experience", r.SubScores.Experience},
		{"Education", r.SubScores.Education},
		{"Behavioral", r.SubScores.Behavioral},
		{"Compatibility", r.Compatibility},
		{"Experience years", years},
		{"Seniority", r.Seniority},
		{"Top skills", strings.Join(r.TopSkills, ", ")},
		{"Strengths", strings.Join(r.Strengths, "\n")},
		{"Weaknesses", strings.Join(r.Weaknesses, "\n")},
		{"Suggestions", strings.Join(r.Suggestions, "\n")},
		{"Summary", r.Summary},
		{"Assessment", r.DetailedAssessment},
		{"Fallback used", r.FallbackUsed},
		{"Extraction method", r.ExtractionMethod},
		{"Evaluated at", r.EvaluatedAt.Format(timeLayout)},
	})
}

func writeLabelled(f *excelize.File, sheet string, st styles, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.label); err != nil {
			return err
		}
	}
	return nil
}

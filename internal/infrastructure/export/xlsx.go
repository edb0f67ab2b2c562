// Package export flattens archive records into a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

const (
	SheetName   = "Submissions"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	notAvailable = "N/A"
)

var columns = []string{
	"ID", "Timestamp", "Name", "Email", "Age", "Gender", "Orientation", "Goal",
	"Height", "Weight", "Occupation", "Income", "MBTI", "Extroversion", "Thinking",
	"Interests", "Values", "DarkSide", "Archetype", "Score",
}

// Filename is the download name for an export taken at t.
func Filename(t time.Time) string {
	return "YueLao_Data_Export_" + t.Format("2006-01-02") + ".xlsx"
}

// WriteXLSX writes one row per record. The photo is never exported.
func WriteXLSX(w io.Writer, records []*domain.SubmissionRecord) error {
	if len(records) == 0 {
		return domain.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := flatten(record)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func flatten(r *domain.SubmissionRecord) []any {
	p := r.Profile

	var archetype, score any = notAvailable, notAvailable
	if r.HasAnalysis() {
		archetype = r.AnalysisResult.ArchetypeTitle
		score = r.AnalysisResult.CompatibilityScore
	}

	return []any{
		r.ID.String(),
		r.CreatedAt.UTC().Format(time.RFC3339),
		p.Name,
		p.Email,
		p.Age,
		p.Gender,
		p.SexualOrientation,
		string(r.RelationshipGoal),
		p.Height,
		p.Weight,
		p.Occupation,
		p.Income,
		p.MBTI,
		p.IntroExtroScale,
		p.ThinkingFeelingScale,
		p.Interests,
		p.Values,
		p.DarkSide,
		archetype,
		score,
	}
}

package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

func TestWriteXLSX(t *testing.T) {
	submissionID := uuid.New()
	created := time.Date(2025, 2, 14, 20, 30, 0, 0, time.UTC)

	pre := &domain.SubmissionRecord{
		ID:               uuid.New(),
		SubmissionID:     submissionID,
		CreatedAt:        created,
		RelationshipGoal: domain.GoalLifePartner,
		Profile:          repositorytest.SampleProfile(),
	}
	post := *pre
	post.ID = uuid.New()
	post.AnalysisResult = repositorytest.SampleResult()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []*domain.SubmissionRecord{pre, &post}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, columns, rows[0])

	assert.Equal(t, pre.ID.String(), rows[1][0])
	assert.Equal(t, "2025-02-14T20:30:00Z", rows[1][1])
	assert.Equal(t, "陳小美", rows[1][2])
	assert.Equal(t, "LIFE_PARTNER", rows[1][7])
	assert.Equal(t, "3", rows[1][13])
	assert.Equal(t, "8", rows[1][14])
	assert.Equal(t, "N/A", rows[1][18])
	assert.Equal(t, "N/A", rows[1][19])

	assert.Equal(t, "理性的建築師", rows[2][18])
	assert.Equal(t, "87", rows[2][19])

	for _, row := range rows {
		for _, cell := range row {
			assert.False(t, strings.HasPrefix(cell, "data:"), "photo leaked into export")
		}
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteXLSX(&buf, nil), domain.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "YueLao_Data_Export_2025-02-14.xlsx", Filename(time.Date(2025, 2, 14, 23, 0, 0, 0, time.UTC)))
}

package admin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/export"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/repository/memory"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

const (
	testPassword = "red-thread"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

var testNow = time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, archive repository.SubmissionRepository, enabled bool) *AdminUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	uc := NewAdminUseCase(archive, config.AdminConfig{
		Enabled:      enabled,
		PasswordHash: string(hash),
		JWTSecret:    testSecret,
		TokenTTL:     time.Hour,
	}, nil)
	uc.now = func() time.Time { return testNow }
	return uc
}

func seed(t *testing.T, archive repository.SubmissionRepository) {
	t.Helper()
	submissionID := uuid.New()
	for _, result := range []*domain.AnalysisResult{nil, repositorytest.SampleResult()} {
		require.NoError(t, archive.Append(context.Background(), &domain.SubmissionRecord{
			ID:               uuid.New(),
			SubmissionID:     submissionID,
			CreatedAt:        testNow,
			RelationshipGoal: domain.GoalLifePartner,
			Profile:          repositorytest.SampleProfile(),
			AnalysisResult:   result,
		}))
	}
}

func TestLoginAndVerify(t *testing.T) {
	uc := newUseCase(t, memory.NewSubmissionRepository(), true)

	resp, err := uc.Login(context.Background(), testPassword)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), resp.ExpiresAt)
	assert.NoError(t, uc.VerifyToken(resp.Token))
}

func TestLogin_WrongPassword(t *testing.T) {
	uc := newUseCase(t, memory.NewSubmissionRepository(), true)

	_, err := uc.Login(context.Background(), "guess")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestDisabled(t *testing.T) {
	uc := newUseCase(t, memory.NewSubmissionRepository(), false)
	assert.False(t, uc.Enabled())

	_, err := uc.Login(context.Background(), testPassword)
	assert.ErrorIs(t, err, domain.ErrAdminDisabled)
	assert.ErrorIs(t, uc.VerifyToken("anything"), domain.ErrAdminDisabled)
}

func TestVerifyToken_Rejects(t *testing.T) {
	uc := newUseCase(t, memory.NewSubmissionRepository(), true)

	sign := func(claims jwt.Claims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: sign(jwt.RegisteredClaims{
			Subject:   adminSubject,
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		}, "another-secret-another-secret-xx")},
		{name: "expired", token: sign(jwt.RegisteredClaims{
			Subject:   adminSubject,
			ExpiresAt: jwt.NewNumericDate(testNow.Add(-time.Minute)),
		}, testSecret)},
		{name: "no expiry", token: sign(jwt.RegisteredClaims{Subject: adminSubject}, testSecret)},
		{name: "wrong subject", token: sign(jwt.RegisteredClaims{
			Subject:   "user",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		}, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, uc.VerifyToken(tt.token), domain.ErrInvalidToken)
		})
	}
}

func TestListAndClear(t *testing.T) {
	archive := memory.NewSubmissionRepository()
	seed(t, archive)
	uc := newUseCase(t, archive, true)

	records, err := uc.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, uc.ClearSubmissions(context.Background()))
	records, err = uc.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExport(t *testing.T) {
	archive := memory.NewSubmissionRepository()
	uc := newUseCase(t, archive, true)

	_, err := uc.Export(context.Background())
	assert.ErrorIs(t, err, domain.ErrNothingToExport)

	seed(t, archive)
	file, err := uc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "YueLao_Data_Export_2025-02-14.xlsx", file.Name)
	assert.Equal(t, export.ContentType, file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

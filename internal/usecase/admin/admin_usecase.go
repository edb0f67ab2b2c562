// Package admin is the privileged view onto the submission archive.
package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/export"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
)

const adminSubject = "admin"

type AdminUseCase struct {
	archive repository.SubmissionRepository
	cfg     config.AdminConfig
	logger  *slog.Logger
	now     func() time.Time
}

func NewAdminUseCase(archive repository.SubmissionRepository, cfg config.AdminConfig, logger *slog.Logger) *AdminUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminUseCase{
		archive: archive,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "admin")),
		now:     time.Now,
	}
}

// LoginResponse carries a bearer token for the admin routes.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportFile is a rendered archive export.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (uc *AdminUseCase) Enabled() bool {
	return uc.cfg.Enabled
}

// Login checks password against the configured bcrypt hash.
func (uc *AdminUseCase) Login(ctx context.Context, password string) (*LoginResponse, error) {
	if !uc.cfg.Enabled {
		return nil, domain.ErrAdminDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(uc.cfg.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.logger.Error("admin password hash unusable", slog.Any("error", err))
		}
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	expiresAt := now.Add(uc.cfg.TokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString([]byte(uc.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	uc.logger.Info("admin login", slog.Time("expires_at", expiresAt))
	return &LoginResponse{Token: tokenString, ExpiresAt: expiresAt}, nil
}

// VerifyToken accepts only unexpired HS256 tokens issued by Login.
func (uc *AdminUseCase) VerifyToken(tokenString string) error {
	if !uc.cfg.Enabled {
		return domain.ErrAdminDisabled
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(uc.now), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return domain.ErrInvalidToken
	}
	if claims.Subject != adminSubject {
		return domain.ErrInvalidToken
	}
	return nil
}

func (uc *AdminUseCase) ListSubmissions(ctx context.Context) ([]*domain.SubmissionRecord, error) {
	records, err := uc.archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return records, nil
}

func (uc *AdminUseCase) ClearSubmissions(ctx context.Context) error {
	if err := uc.archive.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear submissions: %w", err)
	}
	uc.logger.Warn("submission archive cleared")
	return nil
}

// Export renders every record as a spreadsheet. An empty archive yields
// domain.ErrNothingToExport.
func (uc *AdminUseCase) Export(ctx context.Context) (*ExportFile, error) {
	records, err := uc.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, records); err != nil {
		return nil, err
	}

	uc.logger.Info("submission archive exported", slog.Int("records", len(records)))
	return &ExportFile{
		Name:        export.Filename(uc.now()),
		ContentType: export.ContentType,
		Data:        buf.Bytes(),
	}, nil
}

// Package sheets mirrors archive appends to a spreadsheet webhook (a Google
// Apps Script web app URL).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
)

// Mirror wraps an archive. List and Clear go to the wrapped archive only.
type Mirror struct {
	repository.SubmissionRepository

	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewMirror(next repository.SubmissionRepository, cfg config.SheetsConfig, httpClient *http.Client, logger *slog.Logger) *Mirror {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		SubmissionRepository: next,
		url:                  cfg.WebhookURL,
		timeout:              cfg.Timeout,
		client:               httpClient,
		logger:               logger.With(slog.String("component", "sheets")),
	}
}

// Append stores the record and forwards it in the background. Forwarding
// never delays or fails the caller; its errors are logged.
func (m *Mirror) Append(ctx context.Context, record *domain.SubmissionRecord) error {
	if err := m.SubmissionRepository.Append(ctx, record); err != nil {
		return err
	}

	body, err := encode(record)
	if err != nil {
		m.logger.Warn("sheets sync skipped", slog.String("record_id", record.ID.String()), slog.Any("error", err))
		return nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Debug("sheets mirror closed, record not forwarded", slog.String("record_id", record.ID.String()))
		return nil
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func(id string) {
		defer m.wg.Done()

		pctx, cancel := detached(m.timeout)
		defer cancel()

		if err := m.push(pctx, body); err != nil {
			m.logger.Warn("sheets sync failed", slog.String("record_id", id), slog.Any("error", err))
		}
	}(record.ID.String())

	return nil
}

// Close waits for pending forwards. Appends after Close are stored but not
// forwarded.
func (m *Mirror) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()
}

// detached returns a context independent of any caller, bounded by d when set.
func detached(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

func encode(record *domain.SubmissionRecord) ([]byte, error) {
	payload := *record
	payload.Profile = record.Profile.WithoutPhoto()

	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return body, nil
}

func (m *Mirror) push(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Apps Script answers a successful doPost with a redirect to the script
	// output, which the client follows.
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData  = errors.New("insufficient profile data")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidGoal       = errors.New("invalid relationship goal")
	ErrNoPhoto           = errors.New("no photo supplied")
	ErrInvalidPhoto      = errors.New("invalid photo data uri")
	ErrNothingToExport   = errors.New("no data to export")
	ErrShuttingDown      = errors.New("service shutting down")

	ErrAdminDisabled      = errors.New("admin entry point disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrPaymentsDisabled = errors.New("payments disabled")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// AnalysisFailureMessage is shown to the user when the analysis phase fails.
const AnalysisFailureMessage = "實驗室連線異常，數據傳輸失敗。請檢查網絡連接。"

// AnalysisFailure is a remote call or parse failure in the essential phase.
type AnalysisFailure struct {
	Err error
}

func (e *AnalysisFailure) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisFailure) Unwrap() error { return e.Err }

// ImageGenerationFailure is a failure of the decorative image phase. It is
// logged and never surfaced.
type ImageGenerationFailure struct {
	Err error
}

func (e *ImageGenerationFailure) Error() string {
	return fmt.Sprintf("image generation failed: %v", e.Err)
}

func (e *ImageGenerationFailure) Unwrap() error { return e.Err }

// ArchiveWriteFailure is a persistence fault on a submission write.
type ArchiveWriteFailure struct {
	Stage string
	Err   error
}

func (e *ArchiveWriteFailure) Error() string {
	return fmt.Sprintf("archive write (%s) failed: %v", e.Stage, e.Err)
}

func (e *ArchiveWriteFailure) Unwrap() error { return e.Err }

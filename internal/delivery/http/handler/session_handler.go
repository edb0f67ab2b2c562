package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gdugdh24/yuelao-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/admin"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/pipeline"
)

// MaxWait caps the long-poll of GET /sessions/:id.
const MaxWait = 60 * time.Second

type SessionHandler struct {
	pipelineUseCase *pipeline.PipelineUseCase
	adminUseCase    *admin.AdminUseCase
}

func NewSessionHandler(pipelineUseCase *pipeline.PipelineUseCase, adminUseCase *admin.AdminUseCase) *SessionHandler {
	return &SessionHandler{
		pipelineUseCase: pipelineUseCase,
		adminUseCase:    adminUseCase,
	}
}

// Open handles POST /sessions
// @Summary Open a session
// @Description Open a questionnaire session in the Hero state. With admin=true and a valid admin token it opens in the Admin state.
// @Tags sessions
// @Produce json
// @Param admin query bool false "Admin entry"
// @Success 201 {object} pipeline.Snapshot
// @Router /sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	entry := domain.EntryDefault
	if c.Query("admin") == "true" && h.adminUseCase.VerifyToken(middleware.BearerToken(c)) == nil {
		entry = domain.EntryAdmin
	}

	c.JSON(http.StatusCreated, h.pipelineUseCase.Open(entry))
}

// Get handles GET /sessions/:id
// @Summary Get session
// @Description Get the session snapshot. With wait it blocks while the analysis is running, up to 60s.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query string false "Long-poll duration, e.g. 30s"
// @Success 200 {object} pipeline.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var wait time.Duration
	if raw := c.Query("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid wait duration",
			})
			return
		}
		wait = min(d, MaxWait)
	}

	var (
		snap pipeline.Snapshot
		err  error
	)
	if wait > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		defer cancel()
		snap, err = h.pipelineUseCase.Await(ctx, id)
	} else {
		snap, err = h.pipelineUseCase.Get(id)
	}
	if err != nil {
		writeError(c, err, "failed to get session")
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Start handles POST /sessions/:id/start
// @Summary Start the questionnaire
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} pipeline.Snapshot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) Start(c *gin.Context) {
	h.event(c, h.pipelineUseCase.Start)
}

// Back handles POST /sessions/:id/back
// @Summary Return to the form after an insufficient submission
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} pipeline.Snapshot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/back [post]
func (h *SessionHandler) Back(c *gin.Context) {
	h.event(c, h.pipelineUseCase.Back)
}

// Reset handles POST /sessions/:id/reset
// @Summary Reset to the hero view
// @Description Clears the result and image. A running analysis is abandoned.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} pipeline.Snapshot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	h.event(c, h.pipelineUseCase.Reset)
}

// Close handles POST /sessions/:id/close
// @Summary Close the admin view
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} pipeline.Snapshot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	h.event(c, h.pipelineUseCase.CloseAdmin)
}

// Submit handles POST /sessions/:id/submit
// @Summary Submit the profile
// @Description Runs the completeness gate. When it passes the analysis starts in the background and the response is 202 with state "analyzing".
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body pipeline.SubmitRequest true "Profile and relationship goal"
// @Success 200 {object} pipeline.Snapshot
// @Success 202 {object} pipeline.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	// Omitted sliders keep their midpoint defaults.
	req := pipeline.SubmitRequest{Profile: domain.NewProfile()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	snap, err := h.pipelineUseCase.Submit(id, &req)
	if err != nil {
		writeError(c, err, "failed to submit")
		return
	}

	status := http.StatusOK
	if snap.State == domain.ViewAnalyzing {
		status = http.StatusAccepted
	}
	c.JSON(status, snap)
}

func (h *SessionHandler) event(c *gin.Context, fn func(uuid.UUID) (pipeline.Snapshot, error)) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	snap, err := fn(id)
	if err != nil {
		writeError(c, err, "failed to update session")
		return
	}

	c.JSON(http.StatusOK, snap)
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid session id",
		})
		return uuid.Nil, false
	}
	return id, true
}

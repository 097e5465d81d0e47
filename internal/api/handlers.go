// Package api exposes the breakdown pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/script-breakdown/internal/database"
	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/pipeline"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
)

// Handler handles HTTP requests for the breakdown API
type Handler struct {
	orchestrator *pipeline.Orchestrator
	registry     *taxonomy.Registry
	historyRepo  *database.BreakdownHistoryRepository
	jobs         *JobManager
	logger       logging.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	orchestrator *pipeline.Orchestrator,
	registry *taxonomy.Registry,
	historyRepo *database.BreakdownHistoryRepository,
	logger logging.Logger,
) *Handler {
	h := &Handler{
		orchestrator: orchestrator,
		registry:     registry,
		historyRepo:  historyRepo,
		logger:       logger,
	}
	h.jobs = NewJobManager(h.processAndPersist)
	return h
}

// processAndPersist is the shared pipeline entry for sync and async runs.
func (h *Handler) processAndPersist(ctx context.Context, scriptID, text string) (*domain.FinalReport, error) {
	rep, err := h.orchestrator.Process(ctx, scriptID, text)
	if err != nil {
		return nil, err
	}
	if h.historyRepo != nil {
		if saveErr := h.historyRepo.Create(ctx, rep); saveErr != nil {
			h.logger.Warn("failed to persist report",
				logging.String("script_id", scriptID),
				logging.Error(saveErr),
			)
		}
	}
	return rep, nil
}

// BreakdownRequest represents a script submission
type BreakdownRequest struct {
	ScriptID string `json:"script_id"`
	Text     string `json:"text" binding:"required"`
}

// BreakdownResponse represents a processed script response
type BreakdownResponse struct {
	Report *domain.FinalReport `json:"report"`
	Error  string              `json:"error,omitempty"`
}

// RulesResponse lists the active taxonomy rules.
type RulesResponse struct {
	Rules []domain.ClassificationRule `json:"rules"`
	Total int                         `json:"total"`
}

// ProcessScript handles POST /api/v1/breakdown
func (h *Handler) ProcessScript(c *gin.Context) {
	var req BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid breakdown request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scriptID := req.ScriptID
	if scriptID == "" {
		scriptID = uuid.NewString()
	}

	h.logger.Info("processing script",
		logging.String("script_id", scriptID),
		logging.Int("text_bytes", len(req.Text)),
	)

	rep, err := h.processAndPersist(c.Request.Context(), scriptID, req.Text)
	if err != nil {
		h.logger.Error("pipeline failed",
			logging.String("script_id", scriptID),
			logging.Error(err),
		)
		c.JSON(http.StatusInternalServerError, BreakdownResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, BreakdownResponse{Report: rep})
}

// ProcessScriptAsync handles POST /api/v1/breakdown/async
func (h *Handler) ProcessScriptAsync(c *gin.Context) {
	var req BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid breakdown request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scriptID := req.ScriptID
	if scriptID == "" {
		scriptID = uuid.NewString()
	}

	job := h.jobs.Submit(scriptID, req.Text)
	h.logger.Info("async run submitted",
		logging.String("script_id", scriptID),
		logging.String("job_id", job.ID),
	)
	c.JSON(http.StatusAccepted, job)
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *Handler) GetJob(c *gin.Context) {
	job, ok := h.jobs.Get(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetReport handles GET /api/v1/breakdown/:script_id
func (h *Handler) GetReport(c *gin.Context) {
	if h.historyRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report history disabled"})
		return
	}
	scriptID := c.Param("script_id")

	rep, err := h.historyRepo.GetByScriptID(c.Request.Context(), scriptID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		h.logger.Error("failed to load report",
			logging.String("script_id", scriptID),
			logging.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BreakdownResponse{Report: rep})
}

// ListRules handles GET /api/v1/rules
func (h *Handler) ListRules(c *gin.Context) {
	compiled := h.registry.Rules()
	rules := make([]domain.ClassificationRule, 0, len(compiled))
	for _, r := range compiled {
		rules = append(rules, r.ClassificationRule)
	}

	c.JSON(http.StatusOK, RulesResponse{Rules: rules, Total: len(rules)})
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	if h.historyRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report history disabled"})
		return
	}
	stats, err := h.historyRepo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load stats", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.orchestrator == nil || h.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"rules":  h.registry.RuleCount(),
	})
}

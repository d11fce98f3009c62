// Package api is the HTTP boundary: route handlers, error mapping and the
// request logging middleware.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wealthops/risk-profiler/internal/agent"
	"github.com/wealthops/risk-profiler/internal/models"
	"github.com/wealthops/risk-profiler/internal/profiler"
	"github.com/wealthops/risk-profiler/internal/report"
)

type Handler struct {
	machine *profiler.Machine
	reports *report.Manager
	pinger  agent.Pinger
	log     *zap.Logger
}

// NewHandler wires the transport to the state machine. pinger may be nil
// when the agent backend has no reachability probe.
func NewHandler(machine *profiler.Machine, reports *report.Manager, pinger agent.Pinger, log *zap.Logger) *Handler {
	return &Handler{machine: machine, reports: reports, pinger: pinger, log: log}
}

// Index lists the API surface.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wealth Risk Profiling API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"start_session":   "/api/session/start",
			"chat":            "/api/chat/{client_id}",
			"get_profile":     "/api/profile/{client_id}",
			"update_field":    "/api/profile/{client_id}/field",
			"regenerate":      "/api/profile/{client_id}/regenerate",
			"download_report": "/api/report/{client_id}",
			"delete_session":  "/api/session/{client_id}",
		},
	})
}

// Health reports agent backend reachability without failing the request.
func (h *Handler) Health(c *gin.Context) {
	status := gin.H{"status": "healthy"}
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["agent"] = "disconnected"
			c.JSON(http.StatusOK, status)
			return
		}
		status["agent"] = "connected"
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) StartSession(c *gin.Context) {
	p, greeting, err := h.machine.StartSession(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client_id": p.ClientID,
		"message":   greeting,
		"status":    p.Status,
		"version":   p.Version,
	})
}

// chatRequest carries one user utterance. The machine records every
// inbound message as the user role, so no role field is accepted.
type chatRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	result, err := h.machine.ProcessTurn(c.Request.Context(), c.Param("client_id"), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"message":          result.Reply,
		"profile_complete": result.ProfileComplete,
		"status":           result.Status,
		"version":          result.Version,
	}
	if result.ProfileComplete {
		resp["profile_data"] = result.Assessment
		resp["report"] = result.ReportHandle
		resp["pdf_url"] = "/api/report/" + c.Param("client_id")
	} else {
		resp["profile_summary"] = result.Summary
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.machine.GetProfile(c.Param("client_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":            p.Summary(),
		"is_complete":        p.IsComplete(),
		"missing_fields":     p.MissingFields(),
		"status":             p.Status,
		"version":            p.Version,
		"last_report_handle": p.LastReportHandle,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	})
}

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value" binding:"required"`
}

func (h *Handler) UpdateField(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and value are required"})
		return
	}

	p, err := h.machine.UpdateField(c.Param("client_id"), req.Field, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": p.Summary(),
		"version": p.Version,
		"status":  p.Status,
	})
}

func (h *Handler) Regenerate(c *gin.Context) {
	p, assessment, err := h.machine.Regenerate(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile_data": assessment,
		"version":      p.Version,
		"report":       p.LastReportHandle,
		"status":       p.Status,
	})
}

func (h *Handler) DownloadReport(c *gin.Context) {
	clientID := c.Param("client_id")
	if _, err := h.machine.GetProfile(clientID); err != nil {
		h.fail(c, err)
		return
	}
	path, ok := h.reports.LatestPath(clientID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report file missing"})
		return
	}
	c.FileAttachment(path, "risk_profile_"+clientID+".pdf")
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.machine.DeleteSession(c.Param("client_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// fail translates the core error taxonomy into HTTP statuses. Nothing
// crosses this boundary unmapped.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		unknown    *profiler.UnknownFieldError
		missing    *profiler.MissingFieldsError
		artifact   *profiler.ArtifactWriteError
	)
	switch {
	case errors.Is(err, profiler.ErrUnknownSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.As(err, &validation), errors.As(err, &unknown):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "profile incomplete",
			"missing_fields": missing.Fields,
		})
	case errors.As(err, &artifact):
		h.log.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "agent timed out"})
	default:
		h.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

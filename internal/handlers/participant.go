package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/repository"
)

type ParticipantHandler struct {
	log *zap.Logger
}

func NewParticipantHandler(log *zap.Logger) *ParticipantHandler {
	return &ParticipantHandler{log: log}
}

// List returns a project's participants, optionally filtered by review
// status (?status=pending|approved|rejected).
func (h *ParticipantHandler) List(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	status := c.Query("status")
	switch status {
	case "", models.ParticipantPending, models.ParticipantApproved, models.ParticipantRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	participants, err := repository.ListParticipants(c.Request.Context(), project.ID, status)
	if err != nil {
		h.log.Error("Failed to list participants", zap.Uint("projectID", project.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list participants"})
		return
	}
	c.JSON(http.StatusOK, participants)
}

type reviewRequest struct {
	Status string `json:"status" binding:"required"`
}

// Review approves or rejects one participant's run.
func (h *ParticipantHandler) Review(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if req.Status != models.ParticipantApproved && req.Status != models.ParticipantRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	participant, err := repository.GetParticipant(c.Request.Context(), c.Param("pid"))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && participant.ProjectID != project.ID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participant"})
		return
	}

	if err := repository.UpdateParticipantStatus(c.Request.Context(), participant.ID, req.Status); err != nil {
		h.log.Error("Failed to update participant status", zap.String("participantID", participant.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update participant"})
		return
	}
	participant.Status = req.Status
	c.JSON(http.StatusOK, participant)
}

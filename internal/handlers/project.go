package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/repository"
)

type ProjectHandler struct {
	log *zap.Logger
}

func NewProjectHandler(log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{log: log}
}

// ownedProject resolves the :id param against the logged-in researcher and
// writes the error response itself on failure.
func ownedProject(c *gin.Context) (*models.Project, bool) {
	user := c.MustGet("user").(*models.User)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return nil, false
	}

	project, err := repository.GetOwnedProject(c.Request.Context(), uint(id), user.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return nil, false
	case errors.Is(err, repository.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "project not found"})
		return nil, false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) List(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	projects, err := repository.ListProjects(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to list projects", zap.Uint("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

type createProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name is required"})
		return
	}

	project := &models.Project{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      models.ProjectDraft,
	}
	if err := repository.CreateProject(c.Request.Context(), project); err != nil {
		h.log.Error("Failed to create project", zap.Uint("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus flips a project between collecting and paused. Pausing keeps
// the share link but makes it refuse new respondent sessions.
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	switch req.Status {
	case models.ProjectDraft, models.ProjectCollecting, models.ProjectPaused:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := repository.UpdateProjectStatus(c.Request.Context(), project.ID, req.Status); err != nil {
		h.log.Error("Failed to update project status", zap.Uint("projectID", project.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	project.Status = req.Status
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	if err := repository.DeleteProject(c.Request.Context(), project.ID); err != nil {
		h.log.Error("Failed to delete project", zap.Uint("projectID", project.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}
	c.Status(http.StatusNoContent)
}

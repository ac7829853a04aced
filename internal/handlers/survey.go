package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/config"
	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/repository"
	"github.com/lifeinnovator/InsightFlow/internal/utils"
)

type SurveyHandler struct {
	log       *zap.Logger
	templates *models.TemplateLibrary
}

func NewSurveyHandler(log *zap.Logger, templates *models.TemplateLibrary) *SurveyHandler {
	return &SurveyHandler{log: log, templates: templates}
}

// Get returns the project's questionnaire for the builder.
func (h *SurveyHandler) Get(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}

	survey, err := repository.GetSurveyByProject(c.Request.Context(), project.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"title": "", "questions": []models.Question{}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}

	questions, err := survey.Questions()
	if err != nil {
		h.log.Error("Stored survey config is unreadable", zap.Uint("surveyID", survey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "survey config is unreadable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":      survey.Title,
		"questions":  questions,
		"shareToken": survey.ShareToken,
	})
}

type saveSurveyRequest struct {
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions" binding:"required"`
}

// Save replaces the project's questionnaire. Refused once responses exist,
// since edits would orphan the collected rows.
func (h *SurveyHandler) Save(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}
	var req saveSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a question list is required"})
		return
	}

	survey, err := repository.SaveSurvey(c.Request.Context(), project.ID, req.Title, req.Questions)
	switch {
	case errors.Is(err, repository.ErrHasResponses):
		c.JSON(http.StatusConflict, gin.H{"error": "survey already has responses; editing is locked"})
		return
	case err != nil:
		// Validation failures from the question union surface here.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": survey.ID, "title": survey.Title})
}

// Templates lists the bundled question templates for the builder sidebar.
func (h *SurveyHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.templates.Templates)
}

// Share issues (or returns) the public respond link for a project's survey
// and moves the project into collecting.
func (h *SurveyHandler) Share(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}

	survey, err := repository.GetSurveyByProject(c.Request.Context(), project.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "build a survey before sharing it"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}

	if survey.ShareToken == "" {
		token, err := utils.GenerateSecureToken(9)
		if err != nil {
			h.log.Error("Failed to generate share token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create share link"})
			return
		}
		if err := repository.SetShareToken(c.Request.Context(), survey.ID, token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store share link"})
			return
		}
		survey.ShareToken = token
	}

	if project.Status != models.ProjectCollecting {
		if err := repository.UpdateProjectStatus(c.Request.Context(), project.ID, models.ProjectCollecting); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open collection"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"shareToken": survey.ShareToken,
		"url":        config.Conf.Server.PublicBaseURL + "/s/" + survey.ShareToken,
	})
}

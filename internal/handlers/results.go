package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/repository"
)

type ResultsHandler struct {
	log *zap.Logger
}

func NewResultsHandler(log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{log: log}
}

// Summary returns the per-question aggregates for a project's survey:
// answered counts, mean/stddev/distribution for likert questions and the
// collected texts for open-ended ones.
func (h *ResultsHandler) Summary(c *gin.Context) {
	project, ok := ownedProject(c)
	if !ok {
		return
	}

	survey, err := repository.GetSurveyByProject(c.Request.Context(), project.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project has no survey yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}

	summary, err := repository.SummarizeSurvey(c.Request.Context(), survey)
	if err != nil {
		h.log.Error("Failed to summarize survey", zap.Uint("surveyID", survey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize responses"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/repository"
	"github.com/lifeinnovator/InsightFlow/internal/respond"
)

// RespondHandler drives the public survey-taking flow. The progression
// policy lives here: Next and Finish are gated on CanAdvance, the state
// machine itself stays passive.
type RespondHandler struct {
	log      *zap.Logger
	registry *respond.Registry
	source   respond.DefinitionSource
	gateway  respond.Gateway
}

func NewRespondHandler(log *zap.Logger, registry *respond.Registry, source respond.DefinitionSource, gateway respond.Gateway) *RespondHandler {
	return &RespondHandler{log: log, registry: registry, source: source, gateway: gateway}
}

const respondentSessionKey = "respondent_session_"

// Start opens a respondent session for the share token, or resumes the one
// referenced by the respondent's cookie.
func (h *RespondHandler) Start(c *gin.Context) {
	token := c.Param("token")
	httpSession := sessions.Default(c)

	if sid, ok := httpSession.Get(respondentSessionKey + token).(string); ok {
		if s, found := h.registry.Get(sid); found {
			c.JSON(http.StatusOK, sessionView(s))
			return
		}
	}

	s, err := respond.Start(c.Request.Context(), h.source, token)
	if err != nil {
		var loadErr *respond.DefinitionLoadError
		switch {
		case errors.As(err, &loadErr) && errors.Is(loadErr.Err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		case errors.As(err, &loadErr) && errors.Is(loadErr.Err, repository.ErrCollectionClosed):
			c.JSON(http.StatusGone, gin.H{"error": "this survey is no longer collecting responses"})
		default:
			h.log.Error("Failed to load survey definition", zap.String("token", token), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load survey"})
		}
		return
	}

	// An empty survey is a valid, inert terminal state; the client shows a
	// "no survey configured" message and never submits.
	if s.State() == respond.StateActive {
		h.registry.Put(s)
		httpSession.Set(respondentSessionKey+token, s.ID())
		if err := httpSession.Save(); err != nil {
			h.registry.Remove(s.ID())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
			return
		}
	}
	c.JSON(http.StatusOK, sessionView(s))
}

// session resolves the respondent's in-flight session or writes the error.
func (h *RespondHandler) session(c *gin.Context) (*respond.Session, bool) {
	token := c.Param("token")
	sid, ok := sessions.Default(c).Get(respondentSessionKey + token).(string)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session; reload the survey"})
		return nil, false
	}
	s, found := h.registry.Get(sid)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "session expired; reload the survey"})
		return nil, false
	}
	return s, true
}

type answerRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// Answer records the value for the current question. Likert questions take
// a number, open-text questions a string; anything else is rejected.
func (h *RespondHandler) Answer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an answer value is required"})
		return
	}

	answer, err := decodeAnswer(s.Question(), req.Value)
	if err == nil {
		err = s.RecordAnswer(answer)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(s))
}

// Next advances to the following question, gated on a qualifying answer.
func (h *RespondHandler) Next(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if !s.CanAdvance() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "answer the current question first"})
		return
	}
	if err := s.Advance(); err != nil {
		if errors.Is(err, respond.ErrOutOfRange) {
			c.JSON(http.StatusConflict, gin.H{"error": "already at the last question; submit instead"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(s))
}

// Back returns to the previous question. Recorded answers on both sides of
// the move are untouched.
func (h *RespondHandler) Back(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Retreat(); err != nil {
		if errors.Is(err, respond.ErrOutOfRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already at the first question"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(s))
}

// Submit finishes the run. On a persistence failure the session stays alive
// with every answer intact, so the respondent can just press submit again.
func (h *RespondHandler) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	participantID, err := s.Submit(c.Request.Context(), h.gateway)
	if err != nil {
		var subErr *respond.SubmissionError
		switch {
		case errors.As(err, &subErr):
			h.log.Error("Submission failed, session preserved for retry",
				zap.String("session_id", s.ID()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "submission failed; please try again"})
		case errors.Is(err, respond.ErrNotReady):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "answer every question before submitting"})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		}
		return
	}

	h.registry.Remove(s.ID())
	httpSession := sessions.Default(c)
	httpSession.Delete(respondentSessionKey + c.Param("token"))
	if err := httpSession.Save(); err != nil {
		h.log.Warn("Failed to clear respondent cookie after submit", zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"participantId": participantID})
}

func decodeAnswer(q models.Question, raw json.RawMessage) (respond.Answer, error) {
	switch q.Type {
	case models.QuestionLikert:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.New("this question takes a numeric answer")
		}
		return respond.LikertAnswer(v), nil
	case models.QuestionOpenText:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.New("this question takes a text answer")
		}
		return respond.TextAnswer(v), nil
	}
	return nil, errors.New("unsupported question type")
}

// sessionView is the payload the survey page renders from.
func sessionView(s *respond.Session) gin.H {
	view := gin.H{
		"state":         s.State().String(),
		"questionCount": s.Len(),
	}
	if def := s.Definition(); def != nil {
		view["title"] = def.Title
	}
	if s.State() != respond.StateActive {
		return view
	}

	q := s.Question()
	view["currentIndex"] = s.CurrentIndex()
	view["isLast"] = s.CurrentIndex() == s.Len()-1
	view["question"] = q
	view["canAdvance"] = s.CanAdvance()
	if a, ok := s.AnswerAt(s.CurrentIndex()); ok {
		switch v := a.(type) {
		case respond.LikertAnswer:
			view["answer"] = int(v)
		case respond.TextAnswer:
			view["answer"] = string(v)
		}
	}
	return view
}

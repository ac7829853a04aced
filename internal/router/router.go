package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/lifeinnovator/InsightFlow/internal/config"
	"github.com/lifeinnovator/InsightFlow/internal/handlers"
	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/repository"
	"github.com/lifeinnovator/InsightFlow/internal/respond"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

// perMinute clamps a configured per-minute limit before the unsigned
// conversion; a zero or negative value would otherwise wrap into an
// effectively unlimited rate.
func perMinute(n int) uint {
	if n < 1 {
		return 1
	}
	return uint(n)
}

func newLimiter(limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateErrorHandler,
		KeyFunc:      keyFunc,
	})
}

func Setup(log *zap.Logger, templates *models.TemplateLibrary) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("insightflow", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// The respondent session layer: in-memory sessions over the persistence
	// gateway, with idle sessions swept in the background.
	gateway := repository.NewGateway()
	respondConf := config.Conf.Respond
	registry := respond.NewRegistry(log, time.Duration(respondConf.SessionTTLMinutes)*time.Minute)
	registry.StartSweeper(time.Duration(respondConf.SweepPeriodMinutes) * time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(log)
	projectHandler := handlers.NewProjectHandler(log)
	surveyHandler := handlers.NewSurveyHandler(log, templates)
	respondHandler := handlers.NewRespondHandler(log, registry, gateway, gateway)
	participantHandler := handlers.NewParticipantHandler(log)
	resultsHandler := handlers.NewResultsHandler(log)

	authLimiter := newLimiter(5)
	respondLimiter := newLimiter(perMinute(respondConf.RateLimitPerMinute))

	// Public respondent surface; no authentication, rate-limited per IP.
	public := router.Group("/s/:token")
	public.Use(respondLimiter)
	{
		public.GET("", respondHandler.Start)
		public.POST("/answer", respondHandler.Answer)
		public.POST("/next", respondHandler.Next)
		public.POST("/back", respondHandler.Back)
		public.POST("/submit", respondHandler.Submit)
	}

	api := router.Group("/api")
	api.Use(UserLoaderMiddleware(log))

	api.POST("/register", authLimiter, authHandler.Register)
	api.POST("/login", authLimiter, authHandler.Login)

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	authorized.Use(CSRFProtection())
	{
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/logout", authHandler.Logout)

		authorized.GET("/templates", surveyHandler.Templates)

		projectRoutes := authorized.Group("/projects")
		{
			projectRoutes.GET("", projectHandler.List)
			projectRoutes.POST("", projectHandler.Create)
			projectRoutes.GET("/:id", projectHandler.Get)
			projectRoutes.POST("/:id/status", projectHandler.UpdateStatus)
			projectRoutes.DELETE("/:id", projectHandler.Delete)

			projectRoutes.GET("/:id/survey", surveyHandler.Get)
			projectRoutes.PUT("/:id/survey", surveyHandler.Save)
			projectRoutes.POST("/:id/share", surveyHandler.Share)

			projectRoutes.GET("/:id/participants", participantHandler.List)
			projectRoutes.POST("/:id/participants/:pid/review", participantHandler.Review)

			projectRoutes.GET("/:id/results", resultsHandler.Summary)
		}
	}

	return router
}

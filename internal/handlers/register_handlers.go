package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
	"github.com/openbooks-app/openbooks_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Health check and metrics stay outside the rate-limited API surface
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, cfg, services)
}

// registerValidators installs custom binding validators on gin's validator
// engine. "accounttype" restricts a field to the closed account type set.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
			return domain.AccountType(fl.Field().String()).IsValid()
		})
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", corsMiddleware(cfg), rateLimitMiddleware(cfg))

	registerCurrencyRoutes(v1, services.Currency)
	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal)
	registerReportingRoutes(v1, services.Reporting)
	registerImportRoutes(v1, services.Import)
	registerAdminRoutes(v1, services.Checkpointer)
}

// corsMiddleware builds the CORS policy from configuration.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// rateLimitMiddleware builds the per-IP rate limiter from the configured
// "<count>-<period>" format. An unparseable format disables limiting.
func rateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		slog.Default().Warn("Invalid RATE_LIMIT format, rate limiting disabled", slog.String("rate_limit", cfg.RateLimit))
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(limiter.New(memorystore.NewStore(), rate))
}

// registerAdminRoutes registers operational endpoints.
func registerAdminRoutes(rg *gin.RouterGroup, checkpointer portsrepo.Checkpointer) {
	// checkpoint godoc
	// @Summary Force a durability checkpoint
	// @Description Serializes the in-memory database to the backing file immediately
	// @Tags admin
	// @Produce  json
	// @Success 200 {object} map[string]string
	// @Failure 500 {object} map[string]string "Checkpoint failed"
	// @Router /admin/checkpoint [post]
	rg.POST("/admin/checkpoint", func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		if err := checkpointer.Checkpoint(c.Request.Context()); err != nil {
			if errors.Is(err, apperrors.ErrPersistence) {
				logger.Error("On-demand checkpoint failed", slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkpoint failed; in-memory state is unaffected"})
				return
			}
			logger.Error("On-demand checkpoint failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkpoint failed"})
			return
		}
		logger.Info("On-demand checkpoint written")
		c.JSON(http.StatusOK, gin.H{"status": "checkpoint written"})
	})
}

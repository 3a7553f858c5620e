package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"readmore/referral/internal/config"
	"readmore/referral/internal/handler/middleware"
	jwtpkg "readmore/referral/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	ticketHandler *TicketHandler,
	campaignHandler *CampaignHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check and metrics
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// End-user ticket routes
	user := r.Group("/friend_help")
	user.Use(middleware.UserAuth(jwtManager))
	{
		user.POST("", ticketHandler.Issue)
		user.GET("/accept", ticketHandler.Accept)
	}

	// Public campaign listing; per-item status when a token is presented
	r.GET("/friend_help_book/list",
		middleware.OptionalUserAuth(jwtManager),
		campaignHandler.PublicList)

	// Admin campaign routes, one permission per operation
	admin := r.Group("/friend_help_book")
	admin.Use(middleware.UserAuth(jwtManager))
	{
		admin.POST("",
			middleware.AdminAuth(middleware.PermCampaignAdd), campaignHandler.Create)
		admin.GET("",
			middleware.AdminAuth(middleware.PermCampaignList), campaignHandler.AdminList)
		admin.PUT("/:id",
			middleware.AdminAuth(middleware.PermCampaignUpdate), campaignHandler.Update)
		admin.DELETE("/:id",
			middleware.AdminAuth(middleware.PermCampaignDelete), campaignHandler.Delete)
		admin.GET("/:id/top",
			middleware.AdminAuth(middleware.PermCampaignTop), campaignHandler.PromoteToTop)
	}

	return r
}

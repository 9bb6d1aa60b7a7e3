package handlers

import (
	"html/template"
	"net/http"

	smarthome "smarthome_proxy"
	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	bannerMessage   = "Smart Home API Server Running"
	apiMessage      = "API endpoint working"
	errRouteMissing = "Route not found"
)

// Options are the HTTP-layer settings taken from configuration.
type Options struct {
	// AppRedirectURL receives the session token after the OAuth redirect, e.g. myapp://oauth-callback.
	AppRedirectURL string
	// AllowedOrigins for CORS. Empty or "*" allows any origin.
	AllowedOrigins []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.AppRedirectURL == "" {
		opts.AppRedirectURL = defaultAppRedirectURL
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(h.corsConfig()))
	router.SetHTMLTemplate(template.Must(template.New(redirectTemplate).Parse(redirectPage)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.banner)
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// push channel, same port
	router.GET("/ws", h.wsConnect)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": errRouteMissing})
	})

	return router
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	allowAll := len(h.opts.AllowedOrigins) == 0
	for _, o := range h.opts.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.opts.AllowedOrigins
	}
	return cfg
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("", h.apiBanner)
		api.POST("/login", h.login)
		api.GET("/redirectUrl", h.oauthRedirect)
		api.GET("/redirecturl", h.oauthRedirect)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api", h.sessionMiddleware)
	{
		api.POST("/logout", h.logout)
		api.GET("/devices", h.listDevices)
		api.GET("/familyinfo", h.listDevices)
		api.GET("/families", h.listFamilies)
		h.registerDeviceRoutes(api)
		api.POST("/window/:id/control", h.deviceAction)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	device := api.Group("/device/:id")
	{
		// Body example: {"state":"on"}
		device.POST("/toggle", h.toggleDevice)
		device.POST("/toggle/:state", h.toggleDevice)
		device.GET("/power-stats", h.powerStats)
		device.GET("/usage", h.powerStats)
		device.GET("/power", h.deviceState)
	}
}

// @Summary      Service banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  smarthome_proxy.MessageResponse
// @Router       / [get]
func (h *Handler) banner(c *gin.Context) {
	c.JSON(http.StatusOK, smarthome.MessageResponse{Message: bannerMessage})
}

// @Summary      API banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  smarthome_proxy.MessageResponse
// @Router       /api [get]
func (h *Handler) apiBanner(c *gin.Context) {
	c.JSON(http.StatusOK, smarthome.MessageResponse{Message: apiMessage})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  smarthome_proxy.HealthResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	resp := smarthome.HealthResponse{Status: statusOK}
	if h.services.Connections != nil {
		resp.Connections = h.services.Len()
	}
	c.JSON(http.StatusOK, resp)
}

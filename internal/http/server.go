package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/auth"
	"studio-service/internal/config"
	"studio-service/internal/http/handler"
	"studio-service/internal/http/middleware"
	"studio-service/internal/rbac/presets"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"

	apiPrefix             = "/api"
	assetUploadPath       = "/projects/:id/assets"
	deliverableUploadPath = "/jobs/:id/deliverables"

	// multipartOverhead leaves room for boundaries and form fields around
	// the file part.
	multipartOverhead int64 = 1 << 20
)

type ServerDependencies struct {
	Config         *config.Config
	Accounts       handler.AccountService
	Projects       handler.ProjectService
	Assignments    handler.AssignmentService
	Assets         handler.AssetService
	Comments       handler.CommentService
	Jobs           handler.JobService
	Inbox          handler.InboxService
	Generation     handler.ConceptGenerator
	AuditEvents    handler.AuditQuerier
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
}

type Server struct {
	echo    *echo.Echo
	deps    *ServerDependencies
	metrics *middleware.Metrics
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	metrics := middleware.NewMetrics()

	// Request ID first, so every log line and audit event carries it.
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(audit.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Skipper: isUpload,
		Limit:   requestBodyLimit,
	}))

	ipLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.IPRequestsPerSecond, deps.Config.RateLimit.IPBurst)
	userLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.UserRequestsPerSecond, deps.Config.RateLimit.UserBurst)
	e.Use(ipLimiter.Middleware())

	registerRoutes(e, deps, userLimiter, metrics)

	return &Server{
		echo:    e,
		deps:    deps,
		metrics: metrics,
	}
}

func registerRoutes(e *echo.Echo, deps *ServerDependencies, userLimiter *middleware.RateLimiter, metrics *middleware.Metrics) {
	maxUpload := deps.Config.App.MaxUploadSize
	uploadLimit := echomiddleware.BodyLimit(strconv.FormatInt(maxUpload+multipartOverhead, 10))

	accounts := handler.NewAccountHandler(deps.Accounts)
	projects := handler.NewProjectHandler(deps.Projects)
	assignments := handler.NewAssignmentHandler(deps.Assignments)
	assets := handler.NewAssetHandler(deps.Assets, maxUpload)
	comments := handler.NewCommentHandler(deps.Comments)
	jobs := handler.NewJobHandler(deps.Jobs, maxUpload)
	inbox := handler.NewInboxHandler(deps.Inbox)
	generation := handler.NewGenerationHandler(deps.Generation)
	auditEvents := handler.NewAuditHandler(deps.AuditEvents)

	e.GET("/health", healthCheck)
	e.GET("/public/projects", projects.ListPublicProjects)

	api := e.Group(apiPrefix)
	api.Use(deps.AuthMiddleware.RequireJWT())
	api.Use(userLimiter.Middleware())

	// The only route that may create a profile.
	api.POST("/session", accounts.Session)

	p := api.Group("")
	p.Use(deps.AuthMiddleware.RequireProfile())

	p.GET("/me", accounts.Me)
	p.GET("/profiles/:id", accounts.GetProfile)
	p.PATCH("/profiles/:id", accounts.UpdateProfile)

	rbacm := deps.RBACMiddleware
	p.POST("/accounts", accounts.CreateAccount, rbacm.RequireCapability(presets.ResourceAccount, presets.ActionCreate))
	p.GET("/accounts/:id", accounts.GetAccount)
	p.PATCH("/accounts/:id", accounts.UpdateAccount, rbacm.RequireCapability(presets.ResourceAccount, presets.ActionUpdate))
	p.GET("/accounts/:id/profiles", accounts.ListAccountProfiles)
	p.GET("/accounts/:id/projects", projects.ListAccountProjects)

	p.POST("/projects", projects.CreateProject)
	p.GET("/projects/:id", projects.GetProject)
	p.PATCH("/projects/:id/status", projects.UpdateProjectStatus)
	p.PUT("/projects/:id/visibility", projects.SetVisibility)
	p.GET("/projects/:id/brief", projects.GetBrief)
	p.PATCH("/briefs/:id", projects.UpdateBrief)
	p.POST("/briefs/:id/submit", projects.SubmitBrief)
	p.POST("/briefs/:id/transition", projects.TransitionBrief)
	p.POST("/projects/:id/milestones", projects.CreateMilestone)
	p.GET("/projects/:id/milestones", projects.ListMilestones)
	p.POST("/milestones/:id/approve", projects.ApproveMilestone)
	p.POST("/projects/:id/updates", projects.PublishUpdate)
	p.GET("/projects/:id/updates", projects.ListUpdates)

	p.POST("/projects/:id/assignments", assignments.CreateAssignment)
	p.GET("/projects/:id/assignments", assignments.ListAssignments)
	p.DELETE("/assignments/:id", assignments.RemoveAssignment)
	p.GET("/users/:id/projects", assignments.ListAssignedProjects)
	p.GET("/users/:id/projects/:project_id", assignments.GetAssignedProjectDetails)

	p.POST(assetUploadPath, assets.UploadAsset, uploadLimit)
	p.GET("/projects/:id/assets", assets.ListAssets)
	p.GET("/projects/:id/assets/final", assets.GetFinalAsset)
	p.POST("/assets/:id/final", assets.MarkFinal)
	p.DELETE("/assets/:id", assets.DeleteAsset)

	p.POST("/projects/:id/comments", comments.PostComment)
	p.GET("/projects/:id/comments", comments.ListComments)

	p.POST("/projects/:id/concepts", generation.GenerateConcept)

	p.POST("/jobs", jobs.CreateJob)
	p.GET("/jobs", jobs.ListOpenJobs)
	p.GET("/jobs/mine", jobs.ListMyJobs)
	p.GET("/jobs/:id", jobs.GetJob)
	p.POST("/jobs/:id/apply", jobs.ApplyToJob)
	p.POST("/jobs/:id/start", jobs.StartJob)
	p.POST(deliverableUploadPath, jobs.SubmitDeliverable, uploadLimit)
	p.GET("/jobs/:id/deliverables", jobs.ListDeliverables)
	p.POST("/jobs/:id/complete", jobs.CompleteJob)
	p.POST("/deliverables/:id/review", jobs.ReviewDeliverable)
	p.PATCH("/payments/:id", jobs.UpdatePaymentStatus)
	p.GET("/users/:id/payments", jobs.ListPayments)
	p.GET("/users/:id/stats", jobs.GetCreatorStats)

	p.GET("/notifications", inbox.ListNotifications)
	p.GET("/notifications/unread-count", inbox.UnreadCount)
	p.POST("/notifications/:id/read", inbox.MarkRead)

	admin := p.Group("/admin")
	admin.Use(rbacm.RequireRole(presets.RoleAdmin))
	admin.GET("/audit-events", auditEvents.ListEvents)
	admin.GET("/metrics", func(c echo.Context) error {
		return c.JSON(http.StatusOK, metrics.Snapshot())
	})

	if deps.Config.Server.EnableProfiling {
		registerProfiling(admin.Group("/debug/pprof"))
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

// isUpload lets multipart bodies through to the upload routes, which apply
// their own larger limit. Every other route keeps the 1M cap.
func isUpload(c echo.Context) bool {
	if c.Request().Method != http.MethodPost {
		return false
	}
	switch c.Path() {
	case apiPrefix + assetUploadPath, apiPrefix + deliverableUploadPath:
		return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
	default:
		return false
	}
}

package api

import (
	"net/http"
	"sync"

	"huddleboard/internal/analysis"
	"huddleboard/internal/data"
	"huddleboard/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// DashboardAPI represents the main API handler for the dashboard
type DashboardAPI struct {
	Router   *gin.Engine
	buckets  *data.Buckets
	followup *analysis.FollowUpAnalyzer
	huddle   *analysis.HuddleAnalyzer
	cache    *analysis.Cache
	monitor  *monitoring.Monitor
	hub      *Hub

	authSecret string

	runMu   sync.Mutex
	running map[string]*sync.Mutex
}

// Options bundles the dependencies for a dashboard API instance.
type Options struct {
	Buckets    *data.Buckets
	FollowUp   *analysis.FollowUpAnalyzer
	Huddle     *analysis.HuddleAnalyzer
	Cache      *analysis.Cache
	Monitor    *monitoring.Monitor
	AuthSecret string
	Templates  string
}

// NewDashboardAPI creates a new dashboard API instance
func NewDashboardAPI(opts Options) *DashboardAPI {
	router := gin.Default()

	api := &DashboardAPI{
		Router:     router,
		buckets:    opts.Buckets,
		followup:   opts.FollowUp,
		huddle:     opts.Huddle,
		cache:      opts.Cache,
		monitor:    opts.Monitor,
		hub:        NewHub(),
		authSecret: opts.AuthSecret,
		running:    make(map[string]*sync.Mutex),
	}

	if opts.Templates != "" {
		router.LoadHTMLGlob(opts.Templates)
	}

	// Live progress events from follow-up runs go out over the WebSocket.
	if api.followup != nil {
		api.followup.OnEvent(func(event analysis.ProgressEvent) {
			api.hub.Broadcast(event)
		})
	}

	api.setupRoutes(opts.Templates != "")
	return api
}

// setupRoutes configures all API endpoints
func (d *DashboardAPI) setupRoutes(withHTML bool) {
	// Health check
	d.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Huddleboard API is running"})
	})

	if withHTML {
		d.Router.GET("/", d.HandleHome)
	}
	d.Router.GET("/ws", d.HandleWebSocket)

	v1 := d.Router.Group("/api/v1")
	if d.authSecret != "" {
		v1.Use(AuthMiddleware(d.authSecret))
	}
	{
		// Reservation views
		v1.GET("/buckets", d.ListBuckets)
		v1.GET("/buckets/:name/reservations", d.GetReservations)
		v1.GET("/buckets/:name/dietary", d.GetDietary)
		v1.GET("/buckets/:name/occasions", d.GetOccasions)
		v1.GET("/buckets/:name/stats", d.GetStats)

		// Smart inbox
		v1.GET("/buckets/:name/followups", d.GetFollowUps)

		// Morning huddle
		v1.POST("/huddle/transcribe", d.TranscribeHuddle)
		v1.GET("/huddle/latest", d.GetLatestHuddle)

		// Observability
		v1.GET("/metrics/summary", d.GetMetricsSummary)
	}
}

// HandleHome serves the dashboard page.
func (d *DashboardAPI) HandleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":   "Morning Huddle Server Dashboard",
		"buckets": d.buckets.Names,
	})
}

// bucketLock returns the per-bucket mutex that keeps concurrent requests
// from launching duplicate analysis runs.
func (d *DashboardAPI) bucketLock(bucket string) *sync.Mutex {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	mu, ok := d.running[bucket]
	if !ok {
		mu = &sync.Mutex{}
		d.running[bucket] = mu
	}
	return mu
}

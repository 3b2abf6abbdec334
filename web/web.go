package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XANi/gaia2mqtt/gaia"
	"github.com/XANi/gaia2mqtt/history"
	"github.com/XANi/gaia2mqtt/sensor"
	"github.com/efigence/go-mon"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Snapshot is the read side of the coordinator.
type Snapshot interface {
	Data() gaia.FlatMap
	Raw() map[string]any
	LastError() error
}

type Config struct {
	Logger      *zap.SugaredLogger
	ListenAddr  string
	Coordinator Snapshot
	// Sensors is the live descriptor set, fixed at setup time.
	Sensors []sensor.Description
	// History is optional, /api/v1/history 404s without it.
	History *history.Store
	Debug   bool
}

type Web struct {
	cfg    Config
	log    *zap.SugaredLogger
	router *gin.Engine
}

func New(cfg Config) (*Web, error) {
	if cfg.Coordinator == nil {
		return nil, fmt.Errorf("coordinator is required")
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	w := &Web{
		cfg: cfg,
		log: cfg.Logger,
	}
	r := gin.New()
	r.Use(ginzap.Ginzap(cfg.Logger.Desugar(), time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(cfg.Logger.Desugar(), true))

	r.GET("/_status/health", gin.WrapF(mon.HandleHealthcheck))
	r.GET("/_status/metrics", gin.WrapF(mon.HandleMetrics))

	api := r.Group("/api/v1")
	api.GET("/data", w.handleData)
	api.GET("/raw", w.handleRaw)
	api.GET("/sensors", w.handleSensors)
	api.GET("/history/:key", w.handleHistory)

	w.router = r
	return w, nil
}

// Run serves until the listener fails.
func (w *Web) Run() error {
	w.log.Infof("starting listener on %s", w.cfg.ListenAddr)
	return w.router.Run(w.cfg.ListenAddr)
}

// Handler exposes the router, used by tests.
func (w *Web) Handler() http.Handler {
	return w.router
}

func (w *Web) handleData(c *gin.Context) {
	data := w.cfg.Coordinator.Data()
	if data == nil {
		w.unavailable(c)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (w *Web) handleRaw(c *gin.Context) {
	raw := w.cfg.Coordinator.Raw()
	if raw == nil {
		w.unavailable(c)
		return
	}
	c.JSON(http.StatusOK, raw)
}

func (w *Web) handleSensors(c *gin.Context) {
	data := w.cfg.Coordinator.Data()
	out := make([]gin.H, 0, len(w.cfg.Sensors))
	for _, desc := range w.cfg.Sensors {
		out = append(out, gin.H{
			"key":          desc.Key,
			"name":         desc.Name,
			"unit":         desc.Unit,
			"device_class": desc.DeviceClass,
			"state_class":  desc.StateClass,
			"icon":         desc.Icon,
			"diagnostic":   desc.Diagnostic,
			"value":        desc.Value(data),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (w *Web) handleHistory(c *gin.Context) {
	if w.cfg.History == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history store not configured"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	samples, err := w.cfg.History.Latest(c.Param("key"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, samples)
}

func (w *Web) unavailable(c *gin.Context) {
	msg := "no data yet"
	if err := w.cfg.Coordinator.LastError(); err != nil {
		msg = err.Error()
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
}

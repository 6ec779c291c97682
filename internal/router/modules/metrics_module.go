package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/classical-review/internal/interface/middleware"
	"github.com/oksasatya/classical-review/internal/metrics"
)

type MetricsModule struct {
	Gatherer prometheus.Gatherer
}

func NewMetricsModule(g prometheus.Gatherer) *MetricsModule { return &MetricsModule{Gatherer: g} }

// Register exposes Prometheus metrics to private networks only.
func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", middleware.RequireAllowed(middleware.AllowPrivateIP()), gin.WrapH(metrics.Handler(m.Gatherer)))
}

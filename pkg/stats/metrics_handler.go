package stats

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/trazzed/uqimage/pkg/logging"
)

// MetricsHandler serves the five counters as Prometheus gauges. It never
// mutates the Collector it reads from: scraping /metrics has no effect on
// the SIGHUP report's counters.
type MetricsHandler struct {
	log       logging.Logger
	collector *Collector
}

// NewMetricsHandler returns a handler for GET /metrics.
func NewMetricsHandler(log logging.Logger, collector *Collector) *MetricsHandler {
	return &MetricsHandler{log: log, collector: collector}
}

func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	snap := h.collector.Snapshot()
	families := counterFamilies(snap)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			h.log.WithField("component", "metrics").Warnf("failed to encode metric family %s: %v", family.GetName(), err)
		}
	}
}

func counterFamilies(s Snapshot) []*dto.MetricFamily {
	gauge := dto.MetricType_GAUGE
	makeFamily := func(name, help string, value uint64) *dto.MetricFamily {
		v := float64(value)
		return &dto.MetricFamily{
			Name: strPtr(name),
			Help: strPtr(help),
			Type: &gauge,
			Metric: []*dto.Metric{
				{Gauge: &dto.Gauge{Value: &v}},
			},
		}
	}

	return []*dto.MetricFamily{
		makeFamily("uqimageproc_connected_clients", "Number of currently connected clients.", s.Connected),
		makeFamily("uqimageproc_serviced_clients", "Total number of clients serviced.", s.Serviced),
		makeFamily("uqimageproc_successful_requests", "Number of successfully processed HTTP requests.", s.Success),
		makeFamily("uqimageproc_unsuccessful_requests", "Number of unsuccessful HTTP requests.", s.Unsuccess),
		makeFamily("uqimageproc_operations_completed", "Number of image operations completed.", s.Operations),
	}
}

func strPtr(s string) *string { return &s }

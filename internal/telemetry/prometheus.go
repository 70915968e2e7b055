package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 把遥测事件转成 Prometheus 指标
type Metrics struct {
	reg *prometheus.Registry

	choicesTotal    prometheus.Counter
	clicksTotal     prometheus.Counter
	consideredTotal prometheus.Counter
	selectedTotal   prometheus.Counter
	lastAvgScore    prometheus.Gauge
}

// NewMetrics 创建指标 Observer，指标注册在独立的 Registry 上
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		choicesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_choices_total",
			Help: "Total number of choose calls",
		}),
		clicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_clicks_total",
			Help: "Total number of click calls",
		}),
		consideredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_items_considered_total",
			Help: "Total number of catalog items scored",
		}),
		selectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_items_selected_total",
			Help: "Total number of items returned to callers",
		}),
		lastAvgScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lookbook_last_avg_score",
			Help: "Average score across considered items in the most recent choose call",
		}),
	}
}

func (m *Metrics) SelectedList(ev SelectedListEvent) {
	m.choicesTotal.Inc()
	m.consideredTotal.Add(float64(len(ev.Considered)))
	m.selectedTotal.Add(float64(len(ev.Selected)))
	m.lastAvgScore.Set(ev.AvgScore)
}

func (m *Metrics) ChosenLookbook(ev ChosenLookbookEvent) {
	m.clicksTotal.Inc()
}

// Handler 返回暴露 /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

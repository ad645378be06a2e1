package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botvault_account_commands_total",
			Help: "Count of processed account commands",
		},
		[]string{"command", "status"},
	)
	ProxyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botvault_proxy_requests_total",
			Help: "Count of proxied bot API calls",
		},
		[]string{"method", "status"},
	)
	ProxyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "botvault_proxy_duration_seconds",
			Help:    "Time taken to complete a proxied bot API call",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method"},
	)
	StoreFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botvault_store_failures_total",
			Help: "Count of failed option store operations",
		},
		[]string{"op"},
	)
)

func Init() {
	prometheus.MustRegister(
		CommandCounter,
		ProxyRequests,
		ProxyDuration,
		StoreFailures,
	)
}

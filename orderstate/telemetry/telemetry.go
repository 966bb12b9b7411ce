package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	// ordersim_simulator_unsupported_asset_proxy_total
	//
	// counter that measures the number of simulated transfers skipped because the asset proxy is not simulated
	//
	// Has the following labels:
	// * proxy_id - the 4 byte asset proxy id
	SimulatorUnsupportedAssetProxyMetricName = "ordersim_simulator_unsupported_asset_proxy_total"

	// ordersim_order_state_total
	//
	// counter that measures the number of evaluated order states
	//
	// Has the following labels:
	// * result - "valid" or the exchange error code that made the order invalid
	OrderStateMetricName = "ordersim_order_state_total"

	// ordersim_order_state_error_total
	//
	// counter that measures the number of order state evaluations that failed on infrastructure errors
	OrderStateErrorMetricName = "ordersim_order_state_error_total"

	// ordersim_order_state_duration_seconds
	//
	// histogram of the time it takes to evaluate one order state
	OrderStateDurationMetricName = "ordersim_order_state_duration_seconds"

	SimulatorUnsupportedAssetProxyCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SimulatorUnsupportedAssetProxyMetricName,
			Help: "counter that measures the number of simulated transfers skipped because the asset proxy is not simulated",
		},
		[]string{"proxy_id"},
	)

	OrderStateCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: OrderStateMetricName,
			Help: "counter that measures the number of evaluated order states by result",
		},
		[]string{"result"},
	)

	OrderStateErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: OrderStateErrorMetricName,
			Help: "counter that measures the number of order state evaluations that failed on infrastructure errors",
		},
	)

	OrderStateDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    OrderStateDurationMetricName,
			Help:    "histogram of the time it takes to evaluate one order state",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(SimulatorUnsupportedAssetProxyCounter)
	prometheus.MustRegister(OrderStateCounter)
	prometheus.MustRegister(OrderStateErrorCounter)
	prometheus.MustRegister(OrderStateDurationHistogram)
}

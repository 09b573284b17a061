package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics содержит метрики операций кассы.
type POSMetrics struct {
	// Счётчики операций по имени
	operations *prometheus.CounterVec
	noOps      prometheus.Counter

	// Счётчик напечатанных квитанций
	receiptsPrinted prometheus.Counter

	// Гистограмма времени сборки квитанции
	receiptDuration prometheus.Histogram

	// Gauge открытых столов
	openTables prometheus.Gauge
}

// NewPOSMetrics создаёт новый экземпляр метрик кассы.
func NewPOSMetrics() *POSMetrics {
	return newPOSMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newPOSMetricsWithRegisterer(registerer prometheus.Registerer) *POSMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &POSMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "kasse_operations_total",
			Help: "Total number of ledger operations by name",
		}, []string{"op"}),
		noOps: registerCounter(registerer, prometheus.CounterOpts{
			Name: "kasse_noop_operations_total",
			Help: "Total number of operations ignored as silent no-ops",
		}),
		receiptsPrinted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "kasse_receipts_printed_total",
			Help: "Total number of receipts emitted",
		}),
		receiptDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "kasse_receipt_build_duration_seconds",
			Help:    "Duration of receipt document assembly in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		openTables: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "kasse_open_tables",
			Help: "Number of currently open tables",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation увеличивает счётчик операций с указанным именем.
func (m *POSMetrics) RecordOperation(op string) {
	m.operations.WithLabelValues(op).Inc()
}

// RecordNoOp увеличивает счётчик проигнорированных операций.
func (m *POSMetrics) RecordNoOp() {
	m.noOps.Inc()
}

// RecordReceiptPrinted увеличивает счётчик напечатанных квитанций.
func (m *POSMetrics) RecordReceiptPrinted() {
	m.receiptsPrinted.Inc()
}

// RecordReceiptDuration записывает время сборки документа квитанции.
func (m *POSMetrics) RecordReceiptDuration(duration time.Duration) {
	m.receiptDuration.Observe(duration.Seconds())
}

// SetOpenTables выставляет число открытых столов.
func (m *POSMetrics) SetOpenTables(n int) {
	m.openTables.Set(float64(n))
}

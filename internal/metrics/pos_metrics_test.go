package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewPOSMetrics(t *testing.T) {
	metrics := newPOSMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics == nil {
		t.Fatal("newPOSMetricsWithRegisterer should not return nil")
	}
	if metrics.operations == nil {
		t.Error("operations counter vec should not be nil")
	}
	if metrics.noOps == nil {
		t.Error("noOps counter should not be nil")
	}
	if metrics.receiptsPrinted == nil {
		t.Error("receiptsPrinted counter should not be nil")
	}
	if metrics.receiptDuration == nil {
		t.Error("receiptDuration histogram should not be nil")
	}
	if metrics.openTables == nil {
		t.Error("openTables gauge should not be nil")
	}
}

func TestNewPOSMetrics_Idempotent(t *testing.T) {
	// Повторная регистрация в том же registry отдаёт существующие коллекторы.
	reg := prometheus.NewRegistry()
	first := newPOSMetricsWithRegisterer(reg)
	second := newPOSMetricsWithRegisterer(reg)

	if first.noOps != second.noOps {
		t.Error("expected the same counter instance on re-registration")
	}
}

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := newPOSMetricsWithRegisterer(reg)

	metrics.RecordOperation("add_line")
	metrics.RecordOperation("add_line")
	metrics.RecordOperation("create_table")

	metric := &dto.Metric{}
	counter, err := metrics.operations.GetMetricWithLabelValues("add_line")
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordNoOpAndReceipts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := newPOSMetricsWithRegisterer(reg)

	metrics.RecordNoOp()
	metrics.RecordReceiptPrinted()
	metrics.RecordReceiptPrinted()

	metric := &dto.Metric{}
	if err := metrics.noOps.Write(metric); err != nil {
		t.Fatalf("failed to write noOps metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 no-op, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := metrics.receiptsPrinted.Write(metric); err != nil {
		t.Fatalf("failed to write receipts metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 receipts, got %f", metric.Counter.GetValue())
	}
}

func TestRecordReceiptDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := newPOSMetricsWithRegisterer(reg)

	metrics.RecordReceiptDuration(2 * time.Millisecond)
	metrics.RecordReceiptDuration(5 * time.Millisecond)

	metric := &dto.Metric{}
	if err := metrics.receiptDuration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}

	sum := metric.Histogram.GetSampleSum()
	if sum < 0.006 || sum > 0.008 {
		t.Errorf("expected sum around 0.007, got %f", sum)
	}
}

func TestSetOpenTables(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := newPOSMetricsWithRegisterer(reg)

	metrics.SetOpenTables(3)
	metrics.SetOpenTables(2)

	metric := &dto.Metric{}
	if err := metrics.openTables.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if metric.Gauge.GetValue() != 2.0 {
		t.Errorf("expected 2 open tables, got %f", metric.Gauge.GetValue())
	}
}

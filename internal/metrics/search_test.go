package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()

	err := prometheus.Register(SearchRetriesTotal)
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyRegisteredError, got %v", err)
	}
}

func TestCountReconciliationTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(CountReconciliationTotal.WithLabelValues("exact"))
	CountReconciliationTotal.WithLabelValues("exact").Inc()
	after := testutil.ToFloat64(CountReconciliationTotal.WithLabelValues("exact"))
	if after-before != 1 {
		t.Errorf("expected increment of 1, got %f", after-before)
	}
}

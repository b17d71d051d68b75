package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestScannerCounters(t *testing.T) {
	before := testutil.ToFloat64(ScannerRunsTotal)

	ScannerRunsTotal.Inc()

	if after := testutil.ToFloat64(ScannerRunsTotal); after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestScannerRunningGauge(t *testing.T) {
	ScannerIsRunning.Set(1)
	if v := testutil.ToFloat64(ScannerIsRunning); v != 1 {
		t.Errorf("gauge = %v, want 1", v)
	}

	ScannerIsRunning.Set(0)
	if v := testutil.ToFloat64(ScannerIsRunning); v != 0 {
		t.Errorf("gauge = %v, want 0", v)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")

	v := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25"))
	if v != 1 {
		t.Errorf("app info value = %v, want 1", v)
	}
}

func TestLibraryGauges(t *testing.T) {
	LibraryVideosTotal.Set(42)

	if v := testutil.ToFloat64(LibraryVideosTotal); v != 42 {
		t.Errorf("gauge = %v, want 42", v)
	}
}

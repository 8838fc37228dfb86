package metrics_test

import (
	"testing"

	"github.com/devpulse/engage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			So(func() {
				metrics.RecordSnapshotProcessed()
				metrics.RecordSnapshotDuplicate()
				metrics.RecordSnapshotFailed()
				metrics.RecordStageLatency("timeline", 12.5)
				metrics.RecordRecordSkipped("timeline", "malformed_date")
				metrics.RecordValidationSkipped()
				metrics.RecordDiscrepancies(3)
				metrics.RecordTimelineEvents(10)
				metrics.RecordDuplicateCollapsed()
				metrics.RecordAlertRaised()
			}, ShouldNotPanic)
		})

		Convey("When updating gauges", func() {
			So(func() {
				metrics.UpdateTrackedCohorts(2)
				metrics.UpdateActiveAlerts(5)
				metrics.UpdateQueueSize(7)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.07)
				metrics.UpdateWorkerCount(4)
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				metrics.RecordHTTPRequest("timeline", "GET", "200")
				metrics.RecordHTTPRequestDuration("timeline", "GET", "200", 3.2)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry should be gatherable", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestNewManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("unit"),
			metrics.WithHistogramBuckets([]float64{1, 10, 100}),
		)

		Convey("Then it should be created successfully", func() {
			So(m, ShouldNotBeNil)
		})
	})
}

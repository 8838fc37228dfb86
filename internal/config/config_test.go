package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/devpulse/engage/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should carry sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.Tolerance, convey.ShouldEqual, 2)
			convey.So(cfg.InactiveWeeks, convey.ShouldEqual, 2)
			convey.So(cfg.MaxTimelineLimit, convey.ShouldEqual, 500)
		})
	})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording sync run metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					RecordSyncRun("success")
					RecordSyncRun("failure")
					RecordSyncStepFailure("fetching")
					RecordSyncDuration(1.25)
					RecordTicketsProcessed(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating scale gauges", func() {
			Convey("Then it should update without panicking", func() {
				So(func() {
					UpdateTicketsTracked(100)
					UpdateUsersTracked(12)
					UpdateLastSync(1756600000)
					RecordAchievementGranted()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store and HTTP metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					RecordStoreOperation("upsert_tickets", 0.01)
					RecordHTTPRequest("leaderboard", "GET", "200")
					RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
				}, ShouldNotPanic)
			})
		})

		Convey("When serving the registry", func() {
			Convey("Then the custom registry is exposed", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

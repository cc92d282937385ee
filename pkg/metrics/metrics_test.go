package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
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
				WithCustomLabels(map[string]string{"env": "test"}),
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
		Convey("When recording contract metrics", func() {
			So(func() {
				RecordContractPublish("care_needs")
				RecordPublishError("care_needs")
				RecordPrepUpdate()
				UpdateContractConfidence("care_needs", 0.82)
			}, ShouldNotPanic)
		})

		Convey("When recording journey metrics", func() {
			So(func() {
				RecordProductUnlock("financial_assessment")
				RecordProductCompletion("care_needs")
				RecordForceUnlock()
			}, ShouldNotPanic)
		})

		Convey("When recording snapshot metrics", func() {
			So(func() {
				RecordSnapshotSave()
				RecordSnapshotRestore()
				RecordSnapshotCreate()
				RecordSnapshotFailure()
				RecordSnapshotCorrupt()
				RecordSnapshotSaveLatency(2.5)
			}, ShouldNotPanic)
		})

		Convey("When recording bus and session metrics", func() {
			So(func() {
				RecordBusEmit()
				RecordListenerError()
				UpdateActiveSessions(3)
				UpdateEventLogSize(42)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/recommendation", "POST", "200")
				RecordHTTPRequestDuration("/journey", "GET", "200", 5.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024 * 100)
				UpdateSystemGoroutineCount(100)
				RecordSystemGCPauseTime(1.0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When using zero and empty values", func() {
			So(func() {
				UpdateActiveSessions(0)
				UpdateEventLogSize(0)
				UpdateContractConfidence("", 0)
				RecordHTTPRequest("", "", "200")
				RecordSnapshotSaveLatency(0)
			}, ShouldNotPanic)
		})

		Convey("When using very large values", func() {
			So(func() {
				UpdateActiveSessions(1000000)
				UpdateEventLogSize(1000000)
				RecordSnapshotSaveLatency(30000.0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordBusEmit()
						RecordContractPublish("care_needs")
						UpdateEventLogSize(j)
						RecordHTTPRequest("/journey", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}

func TestRegistryExposure(t *testing.T) {
	Convey("Given the global registry", t, func() {
		RecordContractPublish("care_needs")

		Convey("When gathering", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			Convey("Then the panel metrics are registered", func() {
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["guidepost_panel_contract_publishes_total"], ShouldBeTrue)
				So(names["guidepost_panel_snapshot_saves_total"], ShouldBeTrue)
			})
		})
	})
}

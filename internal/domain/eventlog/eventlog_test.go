package eventlog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/guidepost/panel/internal/domain/eventlog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAppendAndRead(t *testing.T) {
	Convey("Given an empty log", t, func() {
		l := eventlog.New()
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		Convey("When appending events", func() {
			l.Append(eventlog.TypeRecommendationUpdated, now, map[string]any{"product_id": "care_needs"})
			l.Append(eventlog.TypeProductCompleted, now.Add(time.Minute), map[string]any{"product_id": "care_needs"})

			Convey("Then they come back oldest first", func() {
				events := l.Events()
				So(events, ShouldHaveLength, 2)
				So(events[0].Type, ShouldEqual, eventlog.TypeRecommendationUpdated)
				So(events[1].Type, ShouldEqual, eventlog.TypeProductCompleted)
				So(events[0].Payload["product_id"], ShouldEqual, "care_needs")
			})

			Convey("Then Len matches", func() {
				So(l.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestTruncation(t *testing.T) {
	Convey("Given a log bounded to three entries", t, func() {
		l := eventlog.New(eventlog.WithMaxEntries(3))
		now := time.Now().UTC()

		Convey("When appending five events", func() {
			for i := 0; i < 5; i++ {
				l.Append(eventlog.TypeJourneyUnlocked, now, map[string]any{"seq": fmt.Sprintf("%d", i)})
			}

			Convey("Then only the newest three survive", func() {
				events := l.Events()
				So(events, ShouldHaveLength, 3)
				So(events[0].Payload["seq"], ShouldEqual, "2")
				So(events[2].Payload["seq"], ShouldEqual, "4")
			})
		})
	})
}

func TestEventsIsACopy(t *testing.T) {
	Convey("Given a log with one entry", t, func() {
		l := eventlog.New()
		l.Append(eventlog.TypeFinancialUpdated, time.Now().UTC(), nil)

		Convey("When mutating the returned slice", func() {
			events := l.Events()
			events[0].Type = "tampered"

			Convey("Then the log is unaffected", func() {
				So(l.Events()[0].Type, ShouldEqual, eventlog.TypeFinancialUpdated)
			})
		})
	})
}

package bus_test

import (
	"context"
	"testing"

	"github.com/guidepost/panel/internal/bus"
	"github.com/guidepost/panel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestSubscribeAndEmit(t *testing.T) {
	Convey("Given a bus with two listeners on the same event", t, func() {
		b := bus.New()
		var order []string
		b.Subscribe("care_recommendation.updated", func(_ context.Context, _ map[string]any) {
			order = append(order, "first")
		})
		b.Subscribe("care_recommendation.updated", func(_ context.Context, payload map[string]any) {
			order = append(order, "second")
			So(payload["product_id"], ShouldEqual, "care_needs")
		})

		Convey("When emitting", func() {
			b.Emit(context.Background(), "care_recommendation.updated", map[string]any{"product_id": "care_needs"})

			Convey("Then listeners run synchronously in registration order", func() {
				So(order, ShouldResemble, []string{"first", "second"})
			})
		})

		Convey("When emitting an event nobody subscribed to", func() {
			So(func() {
				b.Emit(context.Background(), "journey.unlocked", nil)
			}, ShouldNotPanic)
		})
	})
}

func TestListenerPanicIsolation(t *testing.T) {
	Convey("Given a listener that panics before a healthy one", t, func() {
		b := bus.New(bus.WithLogger(logger.Get()))
		called := false
		b.Subscribe("product.completed", func(_ context.Context, _ map[string]any) {
			panic("listener bug")
		})
		b.Subscribe("product.completed", func(_ context.Context, _ map[string]any) {
			called = true
		})

		Convey("When emitting", func() {
			So(func() {
				b.Emit(context.Background(), "product.completed", nil)
			}, ShouldNotPanic)

			Convey("Then later listeners still run", func() {
				So(called, ShouldBeTrue)
			})
		})
	})
}

func TestNilListenerIgnored(t *testing.T) {
	Convey("Given a nil listener", t, func() {
		b := bus.New()
		b.Subscribe("journey.unlocked", nil)

		Convey("Then emitting does not panic", func() {
			So(func() {
				b.Emit(context.Background(), "journey.unlocked", nil)
			}, ShouldNotPanic)
		})
	})
}

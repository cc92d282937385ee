package session_test

import (
	"context"
	"testing"

	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/journey"
	"github.com/guidepost/panel/internal/session"
	"github.com/guidepost/panel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestPanelLookup(t *testing.T) {
	Convey("Given a session manager", t, func() {
		m := session.NewManager()

		Convey("When requesting the same key twice", func() {
			first := m.Panel("alice")
			second := m.Panel("alice")

			Convey("Then the same panel comes back", func() {
				So(second, ShouldEqual, first)
				So(m.Len(), ShouldEqual, 1)
			})
		})

		Convey("When requesting different keys", func() {
			a := m.Panel("alice")
			b := m.Panel("bob")

			Convey("Then the panels are distinct", func() {
				So(a, ShouldNotEqual, b)
				So(m.Len(), ShouldEqual, 2)
			})
		})

		Convey("When requesting an empty key", func() {
			a := m.Panel("")
			b := m.Panel("")

			Convey("Then each call gets a fresh anonymous session", func() {
				So(a, ShouldNotEqual, b)
				So(a.SessionKey(), ShouldNotBeEmpty)
				So(a.SessionKey(), ShouldNotEqual, b.SessionKey())
			})
		})
	})
}

func TestSessionIsolation(t *testing.T) {
	Convey("Given two sessions from one manager", t, func() {
		ctx := context.Background()
		m := session.NewManager()
		alice := m.Panel("alice")
		bob := m.Panel("bob")

		Convey("When one session publishes a recommendation", func() {
			rec := contract.CareRecommendation{
				Tier:       contract.TierInHome,
				Confidence: 0.6,
				Status:     contract.StatusComplete,
			}
			So(alice.PublishCareRecommendation(ctx, rec), ShouldBeNil)

			Convey("Then the other session is untouched", func() {
				_, ok := bob.GetCareRecommendation(ctx)
				So(ok, ShouldBeFalse)
				So(bob.IsProductUnlocked(ctx, journey.ProductFinancialAssessment), ShouldBeFalse)
				So(bob.Events(ctx), ShouldBeEmpty)
			})

			Convey("Then the publishing session advanced", func() {
				So(alice.IsProductUnlocked(ctx, journey.ProductFinancialAssessment), ShouldBeTrue)
			})
		})
	})
}

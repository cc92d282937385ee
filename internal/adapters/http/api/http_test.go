package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guidepost/panel/internal/adapters/http/api"
	"github.com/guidepost/panel/internal/session"
	"github.com/guidepost/panel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"sessions": 1}
}

func newTestServer() *httptest.Server {
	sessions := session.NewManager()
	srv := api.NewServer(func(key string) api.Panel {
		return sessions.Panel(key)
	}, fakeStats{})

	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func do(t *testing.T, ts *httptest.Server, method, path, sessionKey string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		So(err, ShouldBeNil)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	So(err, ShouldBeNil)
	if sessionKey != "" {
		req.Header.Set(api.SessionHeader, sessionKey)
	}

	resp, err := ts.Client().Do(req)
	So(err, ShouldBeNil)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func recommendationBody() map[string]any {
	return map[string]any{
		"tier":       "assisted_living",
		"tier_score": 0.82,
		"confidence": 0.82,
		"tier_rankings": []map[string]any{
			{"tier": "assisted_living", "score": 0.82},
			{"tier": "in_home", "score": 0.55},
		},
		"flags": []map[string]any{
			{"id": "fall_risk", "label": "Fall risk", "tone": "warning", "priority": 3},
		},
		"status": "complete",
	}
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When hitting the health endpoint", func() {
			resp, body := do(t, ts, http.MethodGet, "/healthz", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("When hitting the stats endpoint", func() {
			resp, body := do(t, ts, http.MethodGet, "/stats", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["sessions"], ShouldEqual, 1)
		})
	})
}

func TestRecommendationRoutes(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When reading before anything was published", func() {
			resp, body := do(t, ts, http.MethodGet, "/recommendation", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "not_published")
		})

		Convey("When publishing a complete recommendation", func() {
			resp, body := do(t, ts, http.MethodPost, "/recommendation", "", recommendationBody())
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "published")

			Convey("Then it reads back", func() {
				resp, body := do(t, ts, http.MethodGet, "/recommendation", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["tier"], ShouldEqual, "assisted_living")
				So(body["status"], ShouldEqual, "complete")
			})

			Convey("Then the journey advanced", func() {
				resp, body := do(t, ts, http.MethodGet, "/journey", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["phase"], ShouldEqual, "in_progress")
				So(body["recommended_next"], ShouldEqual, "financial_assessment")
			})
		})

		Convey("When publishing with an unknown tier", func() {
			bad := recommendationBody()
			bad["tier"] = "luxury_resort"
			resp, body := do(t, ts, http.MethodPost, "/recommendation", "", bad)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "validation_failed")
		})

		Convey("When publishing malformed JSON", func() {
			req, err := http.NewRequest(http.MethodPost, ts.URL+"/recommendation", bytes.NewReader([]byte("{nope")))
			So(err, ShouldBeNil)
			resp, err := ts.Client().Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When publishing flags in the legacy map shape", func() {
			body := map[string]any{
				"tier":       "in_home",
				"confidence": 0.5,
				"flag_map":   map[string]bool{"mobility": true, "ignored": false},
				"status":     "complete",
			}
			resp, _ := do(t, ts, http.MethodPost, "/recommendation", "", body)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			_, got := do(t, ts, http.MethodGet, "/recommendation", "", nil)
			flags, ok := got["flags"].([]any)
			So(ok, ShouldBeTrue)
			So(flags, ShouldHaveLength, 1)
			flag := flags[0].(map[string]any)
			So(flag["id"], ShouldEqual, "mobility")
			So(flag["tone"], ShouldEqual, "info")
		})
	})
}

func TestAppointmentRoutes(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		appt := map[string]any{
			"scheduled": true,
			"date":      "2026-06-01",
			"time":      "10:30",
			"type":      "video",
			"status":    "complete",
		}

		Convey("When publishing and updating prep progress", func() {
			resp, _ := do(t, ts, http.MethodPost, "/appointment", "", appt)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp, body := do(t, ts, http.MethodPost, "/appointment/prep", "", map[string]any{
				"sections_complete": []string{"documents"},
				"progress":          25,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "updated")

			Convey("Then the read reflects both", func() {
				resp, got := do(t, ts, http.MethodGet, "/appointment", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(got["confirmation_id"], ShouldNotBeEmpty)
				So(got["prep_progress"], ShouldEqual, 25)
				So(got["date"], ShouldEqual, "2026-06-01")
			})
		})

		Convey("When the date is not ISO formatted", func() {
			bad := map[string]any{
				"scheduled": true,
				"date":      "06/01/2026",
				"time":      "10:30",
				"type":      "video",
				"status":    "complete",
			}
			resp, body := do(t, ts, http.MethodPost, "/appointment", "", bad)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When prep progress is out of range", func() {
			resp, body := do(t, ts, http.MethodPost, "/appointment/prep", "", map[string]any{
				"progress": 180,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "validation_failed")
		})
	})
}

func TestProductRoutes(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When asking for a locked product's summary", func() {
			resp, body := do(t, ts, http.MethodGet, "/products/financial_assessment/summary", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "locked")
		})

		Convey("When asking about an unknown product", func() {
			resp, body := do(t, ts, http.MethodGet, "/products/estate_planning/summary", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "not_found")
		})

		Convey("When force-unlocking", func() {
			resp, body := do(t, ts, http.MethodPost, "/products/appointment_scheduler/unlock", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "unlocked")

			Convey("Then the unlocked probe agrees", func() {
				resp, got := do(t, ts, http.MethodGet, "/products/appointment_scheduler/unlocked", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(got["unlocked"], ShouldEqual, true)
			})

			Convey("Then the recommendation is still the entry point", func() {
				_, journey := do(t, ts, http.MethodGet, "/journey", "", nil)
				So(journey["recommended_next"], ShouldEqual, "care_needs")
			})
		})

		Convey("When completing a product", func() {
			resp, body := do(t, ts, http.MethodPost, "/products/care_needs/complete", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "completed")

			Convey("Then the event log recorded it", func() {
				req, err := http.NewRequest(http.MethodGet, ts.URL+"/events", nil)
				So(err, ShouldBeNil)
				resp, err := ts.Client().Do(req)
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				var events []map[string]any
				So(json.NewDecoder(resp.Body).Decode(&events), ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0]["type"], ShouldEqual, "product.completed")
			})
		})

		Convey("When the path is malformed", func() {
			resp, _ := do(t, ts, http.MethodGet, "/products//summary", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSessionHeaderIsolation(t *testing.T) {
	Convey("Given a running API server and two sessions", t, func() {
		ts := newTestServer()
		defer ts.Close()

		Convey("When one session publishes", func() {
			resp, _ := do(t, ts, http.MethodPost, "/recommendation", "alice", recommendationBody())
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the other session sees nothing", func() {
				resp, _ := do(t, ts, http.MethodGet, "/recommendation", "bob", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then the publishing session reads it back", func() {
				resp, body := do(t, ts, http.MethodGet, "/recommendation", "alice", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["tier"], ShouldEqual, "assisted_living")
			})
		})
	})
}

package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brendonmuneatgmaildotcom/limestone-studio/services"
	"github.com/kataras/iris/v12"
)

func TestFeedProxyPassesCalendarThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"))
	}))
	defer upstream.Close()

	h := &FeedProxyHandler{Feed: services.NewIcalFeed(upstream.URL, nil)}
	app := iris.New()
	app.Get("/api/ical", h.GetFeed)
	app.Build()

	req := httptest.NewRequest(http.MethodGet, "/api/ical", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("expected text/calendar, got %q", ct)
	}
	if !strings.Contains(resp.Body.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("body not passed through: %q", resp.Body.String())
	}
}

func TestFeedProxyUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer upstream.Close()

	h := &FeedProxyHandler{Feed: services.NewIcalFeed(upstream.URL, nil)}
	app := iris.New()
	app.Get("/api/ical", h.GetFeed)
	app.Build()

	req := httptest.NewRequest(http.MethodGet, "/api/ical", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

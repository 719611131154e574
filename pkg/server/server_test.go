package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/timothyvelberg/ringmenu/pkg/config"
	"github.com/timothyvelberg/ringmenu/pkg/engine"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng := engine.New(engine.Options{})
	eng.Register(provider.NewStatic("apps", "Apps", []provider.Entry{
		{ID: "term", Name: "Terminal", Exec: "true"},
		{ID: "edit", Name: "Editor", Exec: "true"},
	}), provider.ModeDirect)
	eng.Register(provider.NewStatic("extra", "Extra", []provider.Entry{
		{ID: "more", Name: "More", Exec: "true"},
	}), provider.ModeParent)
	if err := eng.LoadFunctions(context.Background()); err != nil {
		t.Fatalf("LoadFunctions: %v", err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(config.ServerConfig{Addr: "localhost:0"}, eng, logger)
}

func TestHandleRings(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var rings []engine.RingConfiguration
	if err := json.Unmarshal(rec.Body.Bytes(), &rings); err != nil {
		t.Fatalf("body is not a ring snapshot: %v", err)
	}
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	// Two spliced direct entries plus the parent wrapper.
	if len(rings[0].Nodes) != 3 {
		t.Errorf("root ring has %d nodes, want 3", len(rings[0].Nodes))
	}
}

func TestHandleRingsSVG(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rings.svg?close_zone=35", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "<circle") {
		t.Error("expected an SVG with a close-zone circle")
	}
}

func TestHandleHit(t *testing.T) {
	srv := newTestServer(t)

	// 115px right of center lands in the root ring.
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/hit?x=615&y=500&cx=500&cy=500", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Hit  bool           `json:"hit"`
		Item engine.ItemHit `json:"item"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Hit || resp.Item.Level != 0 {
		t.Errorf("hit = %+v, want a level 0 hit", resp)
	}

	// Center point is inside the close zone.
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/hit?x=500&y=500&cx=500&cy=500", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Hit {
		t.Error("center point should miss")
	}
}

func TestHandleNavigate(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	post := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/navigate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("expand parent wrapper", func(t *testing.T) {
		rec := post(t, `{"op":"expand","level":0,"index":2}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if srv.eng.RingCount() != 2 {
			t.Errorf("RingCount = %d, want 2", srv.eng.RingCount())
		}
	})

	t.Run("collapse", func(t *testing.T) {
		rec := post(t, `{"op":"collapse","level":0}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if srv.eng.RingCount() != 1 {
			t.Errorf("RingCount = %d, want 1", srv.eng.RingCount())
		}
	})

	t.Run("hover and select", func(t *testing.T) {
		if rec := post(t, `{"op":"hover","level":0,"index":1}`); rec.Code != http.StatusOK {
			t.Fatalf("hover status = %d", rec.Code)
		}
		if rec := post(t, `{"op":"select","level":0,"index":1}`); rec.Code != http.StatusOK {
			t.Fatalf("select status = %d", rec.Code)
		}
		rings := srv.eng.GetRingConfigurations()
		if rings[0].HoveredIndex != 1 || rings[0].SelectedIndex != 1 {
			t.Errorf("hover/select = %d/%d, want 1/1", rings[0].HoveredIndex, rings[0].SelectedIndex)
		}
	})

	t.Run("click executes and reports close", func(t *testing.T) {
		rec := post(t, `{"op":"click","level":0,"index":0,"button":"left"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			OK    bool `json:"ok"`
			Close bool `json:"close"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.OK || !resp.Close {
			t.Errorf("resp = %+v, want ok and close", resp)
		}
	})

	t.Run("invalid op", func(t *testing.T) {
		if rec := post(t, `{"op":"teleport"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid index", func(t *testing.T) {
		if rec := post(t, `{"op":"expand","level":0,"index":99}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		if rec := post(t, `{not json`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing ring", func(t *testing.T) {
		if rec := post(t, `{"op":"collapse","level":7}`); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/test/builders"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMutation(t *testing.T, w *httptest.ResponseRecorder) MutationResponse {
	t.Helper()

	var resp MutationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHandleEditor(t *testing.T) {
	f := newServerFixture(t)
	f.server.SetMedia(http.NotFoundHandler(), entities.EditorPage{
		Title:     "vidspot",
		VideoName: "demo.mp4",
		MediaURL:  "/media/abc.mp4",
	})
	f.session.SetDevice(entities.DeviceMobile)

	w := doRequest(t, f.server.Handler(), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="/media/abc.mp4"`)
	assert.Contains(t, w.Body.String(), `<option value="mobile" selected>Mobile</option>`)
}

func TestHandleMedia(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()

	t.Run("no media mounted", func(t *testing.T) {
		w := doRequest(t, h, http.MethodGet, "/media/abc.mp4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	f.server.SetMedia(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", entities.VideoMIMEType)
		_, _ = w.Write([]byte("video"))
	}), entities.EditorPage{MediaURL: "/media/abc.mp4"})

	t.Run("mounted media is served", func(t *testing.T) {
		w := doRequest(t, h, http.MethodGet, "/media/abc.mp4", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "video", w.Body.String())
	})

	t.Run("released with the session", func(t *testing.T) {
		f.session.Close()
		w := doRequest(t, h, http.MethodGet, "/media/abc.mp4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHotspotEndpoints(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()

	t.Run("create hotspot", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/hotspots",
			`{"x":10,"y":20,"width":15,"height":15,"shape":"circle","color":"#00FF00","opacity":0.4,"startTime":0,"endTime":8}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		require.NotNil(t, resp.Hotspot)
		assert.Equal(t, "id-1", resp.Hotspot.ID)
		assert.True(t, resp.Hotspot.AutoPause, "auto-pause defaults to true")
		assert.False(t, resp.Hotspot.KeepPlaying)
		require.Len(t, resp.State.Active, 1)
		assert.True(t, resp.State.Active[0].BorderRound)
		assert.Equal(t, entities.Point{X: 100, Y: 100}, resp.State.Active[0].Position)
	})

	t.Run("list hotspots", func(t *testing.T) {
		w := doRequest(t, h, http.MethodGet, "/api/hotspots", "")
		require.Equal(t, http.StatusOK, w.Code)

		var snap entities.StoreSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Len(t, snap.Hotspots, 1)
	})

	t.Run("patch hotspot", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPatch, "/api/hotspots/id-1", `{"color":"#0000FF","keepPlaying":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.Equal(t, "#0000FF", resp.State.Hotspots[0].Color)
		assert.True(t, resp.State.Hotspots[0].KeepPlaying)
		assert.Equal(t, 10.0, resp.State.Hotspots[0].X, "untouched fields are kept")
	})

	t.Run("patched CTA list gets unique ids", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPatch, "/api/hotspots/id-1",
			`{"ctas":[{"id":"a","type":"url","content":"https://example.com"},{"id":"a","type":"message","content":"hi"},{"id":"","type":"pause"}]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		ctas := resp.State.Hotspots[0].CTAs
		require.Len(t, ctas, 3)
		assert.Equal(t, "a", ctas[0].ID)
		assert.NotEmpty(t, ctas[1].ID)
		assert.NotEmpty(t, ctas[2].ID)
		assert.NotEqual(t, ctas[0].ID, ctas[1].ID)
		assert.NotEqual(t, ctas[1].ID, ctas[2].ID)
		assert.NotEqual(t, ctas[0].ID, ctas[2].ID)

		w = doRequest(t, h, http.MethodDelete, "/api/hotspots/id-1/ctas/"+ctas[1].ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		remaining := decodeMutation(t, w).State.Hotspots[0].CTAs
		require.Len(t, remaining, 2)
		assert.Equal(t, "a", remaining[0].ID, "deleting one CTA leaves the other")
	})

	t.Run("unknown id leaves the state unchanged", func(t *testing.T) {
		before := f.session.Snapshot()

		w := doRequest(t, h, http.MethodPatch, "/api/hotspots/ghost", `{"color":"#000000"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeMutation(t, w).Applied)

		w = doRequest(t, h, http.MethodDelete, "/api/hotspots/ghost", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeMutation(t, w).Applied)

		assert.Equal(t, before, f.session.Snapshot())
	})

	t.Run("invalid payloads", func(t *testing.T) {
		tests := []struct {
			name   string
			method string
			path   string
			body   string
		}{
			{name: "malformed json", method: http.MethodPost, path: "/api/hotspots", body: `{"x":`},
			{name: "empty body", method: http.MethodPost, path: "/api/hotspots", body: ""},
			{name: "wrong type", method: http.MethodPatch, path: "/api/hotspots/id-1", body: `{"x":"left"}`},
			{name: "unknown shape", method: http.MethodPost, path: "/api/hotspots", body: `{"shape":"star"}`},
			{name: "unknown CTA type", method: http.MethodPatch, path: "/api/hotspots/id-1", body: `{"ctas":[{"id":"c","type":"email"}]}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(t, h, tt.method, tt.path, tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, CodeInvalidPayload, decodeError(t, w).Code)
			})
		}

		assert.Len(t, f.session.Snapshot().Hotspots, 1)
	})

	t.Run("select and deselect", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/selection", `{"id":"id-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeMutation(t, w)
		require.NotNil(t, resp.State.Selected)
		assert.Equal(t, "id-1", resp.State.Selected.ID)

		w = doRequest(t, h, http.MethodPost, "/api/selection", `{"id":""}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decodeMutation(t, w).State.Selected)
	})

	t.Run("delete hotspot", func(t *testing.T) {
		w := doRequest(t, h, http.MethodDelete, "/api/hotspots/id-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.Empty(t, resp.State.Hotspots)
	})
}

func TestCTAEndpoints(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()
	hotspot := f.session.AddHotspot(builders.NewHotspotBuilder().WithWindow(0, 10).WithAutoPause(false).Draft())

	var ctaID string

	t.Run("empty body adds the default CTA", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/hotspots/"+hotspot.ID+"/ctas", "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decodeMutation(t, w)
		require.NotNil(t, resp.CTA)
		assert.Equal(t, entities.CTATypeMessage, resp.CTA.Type)
		assert.Equal(t, "Click me!", resp.CTA.Content)
		ctaID = resp.CTA.ID

		require.Len(t, resp.State.Active, 1)
		require.Len(t, resp.State.Active[0].Buttons, 1)
		assert.Equal(t, "Click me!", resp.State.Active[0].Buttons[0].Label)
	})

	t.Run("unknown hotspot", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/hotspots/ghost/ctas", `{"type":"pause"}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeMutation(t, w)
		assert.False(t, resp.Applied)
		assert.Nil(t, resp.CTA)
	})

	t.Run("invalid CTA type", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/hotspots/"+hotspot.ID+"/ctas", `{"type":"email"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("patch sanitizes the painted label only", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPatch, "/api/hotspots/"+hotspot.ID+"/ctas/"+ctaID,
			`{"content":"<b>Hi</b> there","buttonText":"<script>x()</script>Go","buttonStyle":{"fontSize":"18px"}}`)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.Equal(t, "Go", resp.State.Active[0].Buttons[0].Label)
		assert.Equal(t, "<b>Hi</b> there", resp.State.Hotspots[0].CTAs[0].Content)
	})

	t.Run("unsupported font size", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPatch, "/api/hotspots/"+hotspot.ID+"/ctas/"+ctaID, `{"buttonStyle":{"fontSize":"99px"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("click shows the banner", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/hotspots/"+hotspot.ID+"/ctas/"+ctaID+"/click", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.True(t, resp.State.Banner.Visible)
		assert.Equal(t, "Hi there", resp.State.Banner.Message)
		assert.True(t, f.session.Interacted(hotspot.ID))
	})

	t.Run("click on inactive hotspot is ignored", func(t *testing.T) {
		f.session.TimeUpdate(20)

		w := doRequest(t, h, http.MethodPost, "/api/hotspots/"+hotspot.ID+"/ctas/"+ctaID+"/click", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeMutation(t, w).Applied)
	})

	t.Run("delete CTA", func(t *testing.T) {
		w := doRequest(t, h, http.MethodDelete, "/api/hotspots/"+hotspot.ID+"/ctas/"+ctaID, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.Empty(t, resp.State.Hotspots[0].CTAs)
	})
}

func TestSetTimeEndpoint(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()
	hotspot := f.session.AddHotspot(builders.NewHotspotBuilder().WithWindow(0, 5).Draft())
	path := "/api/hotspots/" + hotspot.ID + "/time/"

	t.Run("parses time code", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPut, path+"end", `{"value":"1:02.50"}`)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeMutation(t, w)
		assert.True(t, resp.Applied)
		assert.Equal(t, 62.5, resp.State.Hotspots[0].EndTime)
	})

	t.Run("malformed value keeps the stored time", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPut, path+"start", `{"value":"abc"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidTimecode, decodeError(t, w).Code)

		got, _ := findHotspot(f.session.Snapshot(), hotspot.ID)
		assert.Equal(t, 0.0, got.StartTime)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPut, path+"middle", `{"value":"0:01.00"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidTimeField, decodeError(t, w).Code)
	})

	t.Run("unknown hotspot", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPut, "/api/hotspots/ghost/time/start", `{"value":"0:01.00"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeMutation(t, w).Applied)
	})
}

func TestDeviceEndpoint(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()

	w := doRequest(t, h, http.MethodPut, "/api/device", `{"device":"tablet"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeMutation(t, w)
	assert.Equal(t, entities.DeviceTablet, resp.State.Device)
	assert.Equal(t, "Tablet", resp.State.DeviceLabel)

	w = doRequest(t, h, http.MethodPut, "/api/device", `{"device":"watch"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidDevice, decodeError(t, w).Code)
	assert.Equal(t, entities.DeviceTablet, f.session.Device())
}

func TestStateEndpoint(t *testing.T) {
	f := newServerFixture(t)
	f.session.AddHotspot(builders.NewHotspotBuilder().WithWindow(0, 5).Draft())

	w := doRequest(t, f.server.Handler(), http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var view entities.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Active, 1)
	assert.Equal(t, entities.Size{Width: 1000, Height: 500}, view.Container)
}

func TestCloseSessionEndpoint(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()
	f.session.AddHotspot(builders.NewHotspotBuilder().Draft())

	w := doRequest(t, h, http.MethodDelete, "/api/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, f.session.Snapshot().Hotspots)

	closedChecks := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/api/hotspots", body: `{"x":1}`},
		{method: http.MethodPatch, path: "/api/hotspots/id-1", body: `{"x":1}`},
		{method: http.MethodPut, path: "/api/hotspots/id-1/time/start", body: `{"value":"0:01.00"}`},
		{method: http.MethodPut, path: "/api/device", body: `{"device":"mobile"}`},
		{method: http.MethodPost, path: "/api/selection", body: `{"id":"id-1"}`},
	}
	for _, tt := range closedChecks {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doRequest(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusGone, w.Code)
			assert.Equal(t, CodeSessionClosed, decodeError(t, w).Code)
		})
	}

	w = doRequest(t, h, http.MethodDelete, "/api/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "closing twice is harmless")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newServerFixture(t)
	h := f.server.Handler()

	require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodPut, "/api/device", `{"device":"mobile"}`).Code)
	require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodPatch, "/api/hotspots/ghost", `{"color":"#000000"}`).Code)
	require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodGet, "/", "").Code)

	w := doRequest(t, h, http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var metrics monitoring.ActivityMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	assert.Equal(t, int64(4), metrics.HTTPRequests)
	assert.Equal(t, int64(1), metrics.MutationsApplied)
	assert.Equal(t, int64(1), metrics.MutationsIgnored)
	assert.Equal(t, int64(1), metrics.EditorRenders)
	assert.True(t, metrics.Healthy)
}

func TestCORSPreflight(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/hotspots/id-1", nil)
	req.Header.Set("Origin", "http://localhost:4180")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:4180", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/aiptechmd"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/bitstream"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/layout"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/metadata"
)

func newServer(t *testing.T) (*httptest.Server, *content.Store) {
	t.Helper()
	store := content.NewStore("123456789", "DSpace")
	env, err := crosswalk.NewDefaultEnv(store)
	require.NoError(t, err)
	srv := httptest.NewServer(New(env).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json-patch+json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestPatchItemMetadata(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)

	resp, body := do(t, http.MethodPatch, srv.URL+"/api/core/items/"+item.ID().String(),
		`[{"op":"add","path":"/metadata/dc.title","value":[{"value":"A Title","language":"en"}]}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "A Title", gjson.Get(body, `metadata.dc\.title.0.value`).String())
	assert.Equal(t, "en", gjson.Get(body, `metadata.dc\.title.0.language`).String())
	assert.Equal(t, "item", gjson.Get(body, "type").String())
	assert.Equal(t, "A Title", item.FirstValue("dc.title"))
}

func TestPatchErrors(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)
	itemURL := srv.URL + "/api/core/items/" + item.ID().String()

	cases := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"unknown model", srv.URL + "/api/core/widgets/1", `[]`, http.StatusNotFound},
		{"bad uuid", srv.URL + "/api/core/items/42", `[]`, http.StatusNotFound},
		{"missing item", srv.URL + "/api/core/items/1b0a6b6e-5b1a-4f55-9f0e-5d0c2f1a6c11", `[]`, http.StatusNotFound},
		{"missing box", srv.URL + "/api/layout/boxes/99", `[]`, http.StatusNotFound},
		{"malformed body", itemURL, `{"op":`, http.StatusBadRequest},
		{"unknown field", itemURL, `[{"op":"add","path":"/metadata/dc.nope","value":"x"}]`, http.StatusUnprocessableEntity},
		{"unsupported path", itemURL, `[{"op":"replace","path":"/owner","value":"x"}]`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPatch, c.url, c.body)
			assert.Equal(t, c.status, resp.StatusCode, body)

			var e apiError
			require.NoError(t, json.Unmarshal([]byte(body), &e))
			assert.Equal(t, c.status, e.Status)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestPatchContentType(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPatch, srv.URL+"/api/core/items/"+item.ID().String(), strings.NewReader(`[]`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestPatchBox(t *testing.T) {
	srv, store := newServer(t)
	box := store.AddBox(&content.LayoutBox{Shortname: "primary"})

	resp, body := do(t, http.MethodPatch, srv.URL+"/api/layout/boxes/"+strconv.Itoa(box.ID),
		`[{"op":"replace","path":"/security","value":"ADMINISTRATOR"}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "ADMINISTRATOR", gjson.Get(body, "security").String())

	resp, body = do(t, http.MethodPatch, srv.URL+"/api/layout/boxes/"+strconv.Itoa(box.ID),
		`[{"op":"replace","path":"/entityType","value":"Person"}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
}

func TestBulkBitstreamDelete(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)
	bs, err := store.NewBitstream(store.NewBundle(item, "ORIGINAL"), "a.txt", []byte("hello"))
	require.NoError(t, err)

	resp, body := do(t, http.MethodPatch, srv.URL+"/api/core/bitstreams",
		`[{"op":"remove","path":"/bitstreams/`+bs.ID().String()+`"}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.True(t, bs.Deleted)
	assert.Equal(t, "site", gjson.Get(body, "type").String())
}

func TestCrosswalks(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/crosswalks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names []string
	for _, info := range gjson.Parse(body).Array() {
		names = append(names, info.Get("name").String())
	}
	assert.Contains(t, names, "aip-techmd")

	resp, body = do(t, http.MethodGet, srv.URL+"/api/crosswalks/aip-techmd/"+item.Handle, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Contains(t, body, "dim:dim")
	assert.Contains(t, body, "hdl:"+item.Handle)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/crosswalks/no-such-crosswalk/"+item.ID().String(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/crosswalks/aip-techmd/123456789/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatchRollsBack(t *testing.T) {
	srv, store := newServer(t)
	item := store.NewItem(nil, nil)
	item.AddValue("dc.title", "Original")
	box := store.AddBox(&content.LayoutBox{Shortname: "primary", Header: "Primary"})

	resp, body := do(t, http.MethodPatch, srv.URL+"/api/core/items/"+item.ID().String(),
		`[{"op":"add","path":"/metadata/dc.title","value":"Kept"},
		  {"op":"add","path":"/metadata/dc.nosuchfield","value":"x"}]`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
	assert.Equal(t, []string{"Original"}, values(item.Values(content.MustField("dc.title"))))

	resp, body = do(t, http.MethodPatch, srv.URL+"/api/layout/boxes/"+strconv.Itoa(box.ID),
		`[{"op":"replace","path":"/header","value":"Changed"},
		  {"op":"replace","path":"/maxColumns","value":"many"}]`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
	assert.Equal(t, "Primary", box.Header)
}

func values(mv []content.MetadataValue) []string {
	out := make([]string, len(mv))
	for i, v := range mv {
		out[i] = v.Value
	}
	return out
}

func TestRequestIDAndNoRoute(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/api/crosswalks", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-Id"))

	resp, body := do(t, http.MethodGet, srv.URL+"/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int64(http.StatusNotFound), gjson.Get(body, "status").Int())
	assert.Contains(t, gjson.Get(body, "message").String(), "/api/nowhere")
}

package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI records calls and serves canned data
type fakeAPI struct {
	mu         sync.Mutex
	passengers []passenger.Passenger
	stats      *passenger.Statistics
	statsErr   error
	predicates []passenger.Predicate
	statsCalls int
	imports    map[string]string
}

func newFakeAPI() *fakeAPI {
	age := 22.0
	port := passenger.PortSouthampton
	return &fakeAPI{
		passengers: []passenger.Passenger{
			{ID: 1, Name: "Braund, Mr. Owen Harris", Class: 3, Sex: "male", Age: &age, Ticket: "A/5 21171", Fare: 7.25, Embarked: &port},
			{ID: 2, Name: "Cumings, Mrs. John Bradley", Survived: true, Class: 1, Sex: "female", Ticket: "PC 17599", Fare: 71.2833},
		},
		stats: &passenger.Statistics{
			Total:    passenger.TotalStats{Passengers: 891, Survivors: 342},
			ByClass:  []passenger.ClassStats{{Class: 1, Total: 216, Survived: 136}},
			ByGender: []passenger.GenderStats{{Gender: "female", Total: 314, Survived: 233}},
		},
		imports: make(map[string]string),
	}
}

func (f *fakeAPI) ListPassengers(_ context.Context, predicate passenger.Predicate) ([]passenger.Passenger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicates = append(f.predicates, predicate)
	return f.passengers, nil
}

func (f *fakeAPI) Statistics(context.Context) (*passenger.Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	return f.stats, f.statsErr
}

func (f *fakeAPI) ImportCSV(_ context.Context, filename string, r io.Reader) (*passenger.ImportAck, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports[filename] = string(content)
	return &passenger.ImportAck{Message: "CSV data imported successfully"}, nil
}

func (f *fakeAPI) lastPredicate() passenger.Predicate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.predicates) == 0 {
		return nil
	}
	return f.predicates[len(f.predicates)-1]
}

func newTestServer(t *testing.T, api *fakeAPI, maxUpload int64) *Server {
	t.Helper()
	srv, err := NewServer(api, ServerConfig{
		MaxUploadBytes:     maxUpload,
		DefaultRowsPerPage: 10,
		SessionTTL:         time.Minute,
	}, metrics.New(), internal.NewNopLogger())
	require.NoError(t, err)
	return srv
}

type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) postForm(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func (c *client) upload(filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return c.do(req)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, newFakeAPI(), 1<<20)}
	w := c.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex_LoadsOnceAndSetsSession(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	assert.Contains(t, w.Body.String(), "Titanic Passenger Dashboard")
	assert.Contains(t, w.Body.String(), "Braund, Mr. Owen Harris")
	assert.Contains(t, w.Body.String(), "N/A")

	w = c.do(httptest.NewRequest(http.MethodGet, "/?tab=analysis", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Survival rate by class")

	assert.Len(t, api.predicates, 1)
	assert.Equal(t, 1, api.statsCalls)
	assert.Equal(t, 1, c.srv.sessions.Len())
}

func TestChangeFilter_HTMXRendersFragment(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.postForm("/passengers/filters", url.Values{"field": {"sex"}, "value": {"female"}}, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="passenger-panel"`)
	assert.NotContains(t, w.Body.String(), "<html")
	assert.Equal(t, passenger.Predicate{passenger.FieldSex: "female"}, api.lastPredicate())

	c.postForm("/passengers/filters", url.Values{"field": {"sex"}, "value": {""}}, true)
	assert.Equal(t, passenger.Predicate{}, api.lastPredicate())
}

func TestChangeFilter_InvalidValueShowsNotice(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.postForm("/passengers/filters", url.Values{"field": {"pclass"}, "value": {"first"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pclass must be 1, 2 or 3")

	w = c.postForm("/passengers/filters", url.Values{"field": {"deck"}, "value": {"B"}}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.predicates)
}

func TestNonHTMXPostRedirects(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, newFakeAPI(), 1<<20)}
	c.do(httptest.NewRequest(http.MethodGet, "/", nil))

	w := c.postForm("/passengers/rows-per-page", url.Values{"rows": {"25"}}, false)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?tab=passengers", w.Header().Get("Location"))
}

func TestPassengersJSON(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t, newFakeAPI(), 1<<20)}

	w := c.do(httptest.NewRequest(http.MethodGet, "/passengers", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Status string
		Total  int
		Rows   []struct{ Name, Survived, Age string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "success", view.Status)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Yes", view.Rows[1].Survived)
	assert.Equal(t, "N/A", view.Rows[1].Age)
}

func TestStatistics_JSONAndError(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.do(httptest.NewRequest(http.MethodGet, "/statistics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Did not survive","value":549`)
	assert.Contains(t, w.Body.String(), `"rate":63`)

	api.mu.Lock()
	api.statsErr = fmt.Errorf("connection refused")
	api.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/statistics?refresh=1", nil)
	req.Header.Set("HX-Request", "true")
	w = c.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error fetching statistics")
	assert.NotContains(t, w.Body.String(), "Loading statistics")
}

func TestUpload_SuccessTriggersRefresh(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.upload("train.csv", []byte("PassengerId,Name\n1,Test\n"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, refreshEvent, w.Header().Get("HX-Trigger"))
	assert.Contains(t, w.Body.String(), "File uploaded successfully")
	assert.Equal(t, "PassengerId,Name\n1,Test\n", api.imports["train.csv"])
	assert.Len(t, api.predicates, 1)
	assert.Equal(t, 1, api.statsCalls)
}

func TestUpload_RejectedBeforeRequest(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		maxBytes int64
		message  string
	}{
		{name: "unsupported extension", filename: "notes.txt", content: []byte("hello"), maxBytes: 1 << 20, message: "Only CSV (.csv) and Excel (.xlsx) files are allowed"},
		{name: "too large", filename: "big.csv", content: bytes.Repeat([]byte("a"), 2048), maxBytes: 1024, message: "exceeds the"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			c := &client{t: t, srv: newTestServer(t, api, tt.maxBytes)}

			w := c.upload(tt.filename, tt.content)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Empty(t, w.Header().Get("HX-Trigger"))
			assert.Empty(t, api.imports)
		})
	}
}

func TestUpload_NoFileSelected(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file chosen"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	w := c.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please select a file to upload")
	assert.Empty(t, api.imports)
}

func TestUpload_FollowUpPanelsDoNotRefetch(t *testing.T) {
	api := newFakeAPI()
	c := &client{t: t, srv: newTestServer(t, api, 1<<20)}

	w := c.upload("train.csv", []byte("PassengerId,Name\n1,Test\n"))
	require.Equal(t, refreshEvent, w.Header().Get("HX-Trigger"))

	for _, path := range []string{"/passengers", "/statistics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("HX-Request", "true")
		require.Equal(t, http.StatusOK, c.do(req).Code)
	}

	assert.Len(t, api.predicates, 1)
	assert.Equal(t, 1, api.statsCalls)
}

package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	slowLine = `{"t":{"$date":"2023-10-25T10:00:00.000Z"},"s":"I","msg":"Slow query","attr":{"ns":"testdb.c","command":{"find":"c","filter":{"a":1}},"durationMillis":150}}`
	mysqlLog = "# Time: 231026 10:00:00\n# User@Host: root[root] @ localhost [] thread_id: 1\n# Query_time: 0.000200 Lock_time: 0.000010 Rows_sent: 1 Rows_examined: 1\nSET timestamp=1;\nSELECT 1;\n"
)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	return NewServer(opts).Handler()
}

func uploadRequest(t *testing.T, target, field, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestIndex(t *testing.T) {
	r := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/api/mongo/report"`)
	assert.Contains(t, w.Body.String(), `action="/api/mysql/report"`)
}

func TestParseEndpoint_Mongo(t *testing.T) {
	r := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/mongo/parse", "file", "mongod.log", slowLine+"\nnot json\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		ID     string `json:"id"`
		Format string `json:"format"`
		Source string `json:"source"`
		Empty  bool   `json:"empty"`
		Sheets []struct {
			Name    string          `json:"name"`
			Columns []string        `json:"columns"`
			Rows    [][]interface{} `json:"rows"`
		} `json:"sheets"`
		Diagnostics []string `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "mongo", body.Format)
	assert.Equal(t, "mongod.log", body.Source)
	assert.False(t, body.Empty)
	require.Len(t, body.Sheets, 4)
	assert.Equal(t, "Detailed Metrics", body.Sheets[0].Name)
	require.Len(t, body.Sheets[0].Rows, 1)
	assert.Equal(t, `{"find": "c", "filter": {"a": 1}}`, body.Sheets[0].Rows[0][0])
	assert.NotNil(t, body.Sheets[3].Rows)
	assert.Equal(t, []string{"Line 2: Invalid JSON. Skipped."}, body.Diagnostics)
}

func TestReportEndpoint_MySQL(t *testing.T) {
	r := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/mysql/report", "file", "slow.log", mysqlLog))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="mysql_log_report.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Report-Id"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Detailed Metrics", "Aggregate Results"}, f.GetSheetList())
	rows, err := f.GetRows("Aggregate Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SELECT ?;", rows[1][0])
}

func TestUploadErrors(t *testing.T) {
	r := newTestServer(t, Options{MaxUploadMB: 1})

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{
			name: "unknown format",
			req:  uploadRequest(t, "/api/postgres/parse", "file", "x.log", "SELECT 1"),
			want: http.StatusNotFound,
		},
		{
			name: "missing file",
			req:  uploadRequest(t, "/api/mysql/parse", "other", "x.log", mysqlLog),
			want: http.StatusBadRequest,
		},
		{
			name: "too large",
			req:  uploadRequest(t, "/api/mongo/report", "file", "big.log", strings.Repeat("x", 2<<20)),
			want: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	srv := NewServer(Options{Addr: "127.0.0.1:0"})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
}

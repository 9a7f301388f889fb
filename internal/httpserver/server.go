package httpserver

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/tinytelemetry/slowlog/internal/logging"
	"github.com/tinytelemetry/slowlog/internal/model"
	"github.com/tinytelemetry/slowlog/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configure the upload server.
type Options struct {
	Addr        string
	MaxUploadMB int
	SnippetLen  int
}

// Server accepts log uploads and returns parsed tables or workbooks.
type Server struct {
	addr      string
	maxUpload int64
	parseOpts report.ParseOptions
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates an upload server. Zero options take the defaults.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = model.DefaultListenAddr
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = model.DefaultMaxUploadMB
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      opts.Addr,
		maxUpload: int64(opts.MaxUploadMB) << 20,
		parseOpts: report.ParseOptions{SnippetLen: opts.SnippetLen},
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleIndex)
	r.GET("/api/health", s.handleHealth)
	r.POST("/api/:format/parse", s.handleParse)
	r.POST("/api/:format/report", s.handleReport)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "Failed to listen on %s", s.addr)
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Logger.WithError(err).Error("upload server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"formats": report.Formats(),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	r, ok := s.parseUpload(c)
	if !ok {
		return
	}

	sheets := make([]gin.H, 0, len(r.Sheets))
	for _, sheet := range r.Sheets {
		rows := sheet.Rows
		if rows == nil {
			rows = [][]interface{}{}
		}
		sheets = append(sheets, gin.H{
			"name":    sheet.Name,
			"columns": sheet.ColumnNames(),
			"rows":    rows,
		})
	}
	diags := r.Diagnostics
	if diags == nil {
		diags = model.Diagnostics{}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          r.ID,
		"format":      r.Format,
		"source":      r.Source,
		"empty":       r.Empty(),
		"sheets":      sheets,
		"diagnostics": diags,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	r, ok := s.parseUpload(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, r); err != nil {
		logging.Logger.WithError(err).WithField("source", r.Source).Error("building workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.Header("X-Report-Id", r.ID)
	c.Header("Content-Disposition", `attachment; filename="`+report.DownloadName(r.Format)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// parseUpload reads the "file" form field and parses it in the format named
// by the route. It writes the error response itself and reports false on
// failure.
func (s *Server) parseUpload(c *gin.Context) (*report.Report, bool) {
	format := c.Param("format")
	if !knownFormat(format) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown log format: " + format})
		return nil, false
	}

	if c.Request.ContentLength > s.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
		return nil, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return nil, false
	}

	r, err := report.Parse(format, string(data), fh.Filename, s.parseOpts)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	logging.Diagnostics(r)
	return r, true
}

func knownFormat(format string) bool {
	for _, f := range report.Formats() {
		if f == format {
			return true
		}
	}
	return false
}

package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/ocr"
	"causelist/pkg/segment"
	"causelist/pkg/store"
)

const noDocument = "No document has been processed yet."

// server holds the result cache and the most recently processed document,
// which /case, /cases and /debug read from.
type server struct {
	cfg          config.Config
	store        store.Store
	newExtractor func(engine string) (ocr.Extractor, error)
	logger       *zap.Logger

	mu      sync.RWMutex
	current *store.Result
}

func newServer(cfg config.Config, st store.Store, logger *zap.Logger) *server {
	return &server{
		cfg:   cfg,
		store: st,
		newExtractor: func(engine string) (ocr.Extractor, error) {
			return ocr.New(engine, cfg, logger)
		},
		logger: logger,
	}
}

func setupRoutes(r *gin.Engine, s *server) {
	r.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))
	r.GET("/healthz", s.healthHandler)

	api := r.Group("")
	if s.cfg.JWTSecret != "" {
		api.Use(jwtAuthMiddleware([]byte(s.cfg.JWTSecret)))
	}
	api.POST("/upload", s.uploadHandler)
	api.GET("/case", s.caseHandler)
	api.GET("/cases", s.casesHandler)
	api.GET("/debug", s.debugHandler)
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}

func (s *server) setCurrent(r *store.Result) {
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
}

func (s *server) currentResult() *store.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "engines": segment.EngineNames()})
}

// uploadHandler runs OCR and segmentation on an uploaded PDF. Results are
// cached per file hash and engine; a cache hit reports zero extraction time.
func (s *server) uploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.cfg.MaxUploadMB)<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d MB", s.cfg.MaxUploadMB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if ct := fh.Header.Get("Content-Type"); ct != "application/pdf" && ct != "application/octet-stream" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are accepted."})
		return
	}
	engine, err := segment.ParseEngine(c.PostForm("selected_engine"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	pdf := buf.Bytes()

	hash := fileHash(pdf)
	key := store.Key(hash, string(engine))
	log := s.logger.With(zap.String("file_hash", hash[:12]), zap.String("engine", string(engine)))

	ctx := c.Request.Context()
	if cached, err := s.store.Get(ctx, key); err == nil {
		log.Info("cache hit")
		s.setCurrent(cached)
		c.JSON(http.StatusOK, uploadResponse(cached, 0))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("cache lookup failed", zap.Error(err))
	}

	ex, err := s.newExtractor(string(engine))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, segment.ErrUnsupportedEngine) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	extraction, err := ex.Extract(ctx, pdf, s.cfg.MaxPages)
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		c.JSON(extractionStatus(err), gin.H{"error": err.Error()})
		return
	}
	cases, err := segment.Segment(extraction.Text, string(engine))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	elapsed := math.Round(time.Since(start).Seconds()*100) / 100

	res := &store.Result{
		Key:            key,
		FileHash:       hash,
		Engine:         string(engine),
		Pages:          pageCount(extraction),
		RawText:        extraction.Text,
		Cases:          cases,
		ExtractionTime: elapsed,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Put(ctx, res); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
	s.setCurrent(res)
	log.Info("extracted", zap.Int("cases", cases.Len()), zap.Int("pages", res.Pages), zap.Float64("seconds", elapsed))
	c.JSON(http.StatusOK, uploadResponse(res, elapsed))
}

func fileHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func uploadResponse(r *store.Result, elapsed float64) gin.H {
	return gin.H{
		"total_cases_detected": r.Cases.Len(),
		"pages_processed":      r.Pages,
		"extraction_time":      elapsed,
		"engine_used":          r.Engine,
	}
}

// pageCount prefers the extractor's count and falls back to form feeds.
func pageCount(e *ocr.Extraction) int {
	if e.Pages > 0 {
		return e.Pages
	}
	if e.Text == "" {
		return 0
	}
	return strings.Count(e.Text, "\f") + 1
}

func extractionStatus(err error) int {
	switch {
	case errors.Is(err, ocr.ErrAzureFailed), errors.Is(err, ocr.ErrPaddleFailed):
		return http.StatusBadGateway
	case errors.Is(err, ocr.ErrNoPages):
		return http.StatusBadRequest
	case errors.Is(err, ocr.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *server) caseHandler(c *gin.Context) {
	cur := s.currentResult()
	if cur == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": noDocument})
		return
	}
	sno, err := strconv.Atoi(strings.TrimSpace(c.Query("sno")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sno must be an integer"})
		return
	}
	content, ok := cur.Cases.Get(strconv.Itoa(sno))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No case found with serial number %d. Available: %s", sno, cur.Cases.Available())})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sno": sno, "content": content})
}

func (s *server) casesHandler(c *gin.Context) {
	cur := s.currentResult()
	if cur == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": noDocument})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"engine": cur.Engine,
		"count":  cur.Cases.Len(),
		"keys":   cur.Cases.SortedKeys(),
		"cases":  cur.Cases,
	})
}

func (s *server) debugHandler(c *gin.Context) {
	cur := s.currentResult()
	if cur == nil {
		c.String(http.StatusOK, noDocument)
		return
	}
	c.String(http.StatusOK, "%s", debugDump(cur))
}

// debugDump renders the raw OCR text and the segmented cases in serial order.
func debugDump(r *store.Result) string {
	keys := r.Cases.SortedKeys()
	var b strings.Builder
	fmt.Fprintf(&b, "=== ENGINE: %s ===\n", r.Engine)
	fmt.Fprintf(&b, "=== CASES DETECTED: %d ===\n", r.Cases.Len())
	fmt.Fprintf(&b, "=== CASE KEYS: %s ===\n\n", strings.Join(keys, ", "))
	b.WriteString("=== RAW OCR TEXT ===\n")
	b.WriteString(r.RawText + "\n\n")
	b.WriteString("=== SEGMENTED CASES ===\n")
	for _, k := range keys {
		v, _ := r.Cases.Get(k)
		fmt.Fprintf(&b, "\n--- CASE %s ---\n%s\n", k, v)
	}
	return b.String()
}

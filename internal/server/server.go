// Package server exposes the backend HTTP API: AI description
// generation plus portfolio upload and retrieval. The surface matches
// what the client in internal/remote and the HTTP generator in
// internal/enrich speak.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"folio/internal/enrich"
	"folio/internal/types"
)

// Server is the backend API server.
type Server struct {
	docs *DocStore
	gen  enrich.Generator
	log  *zap.Logger
}

// New builds a Server. gen may be nil when no AI backend is
// configured; generation requests then fail with a configuration
// error.
func New(docs *DocStore, gen enrich.Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{docs: docs, gen: gen, log: log}
}

// Router assembles the gin handler with CORS open to the local
// frontend origins.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	r.GET("/", s.handleRoot)
	api := r.Group("/api")
	{
		api.POST("/ai/generate", s.handleGenerate)
		api.POST("/portfolio", s.handleSave)
		api.GET("/portfolio/:id", s.handleGet)
		api.GET("/portfolios", s.handleList)
	}
	return r
}

// Run serves the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AI Portfolio Builder API",
		"status":  "running",
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req enrich.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if s.gen == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "No AI API key configured. Please set OPENAI_API_KEY or GEMINI_API_KEY in .env file",
		})
		return
	}

	res, err := s.gen.Generate(c.Request.Context(), req)
	if err != nil {
		s.log.Warn("generate failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": fmt.Sprintf("Error generating descriptions: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSave(c *gin.Context) {
	var p types.Portfolio
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	id, err := s.docs.Put(p)
	if err != nil {
		s.log.Error("save portfolio failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": fmt.Sprintf("Error saving portfolio: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio saved successfully", "id": id})
}

func (s *Server) handleGet(c *gin.Context) {
	doc, ok := s.docs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Portfolio not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"portfolios": s.docs.IDs(),
		"count":      s.docs.Count(),
	})
}

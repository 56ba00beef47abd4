// Package web serves the console's REST API and live notification feed.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/logger"
)

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	httpServer       *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	rateLimit        RateLimitConfig
}

var (
	server *Server
)

// Init initializes the global web server
func Init(webhookURL, allowedHosts string) (*Server, error) {
	s, err := NewServer(webhookURL, allowedHosts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server. Requests whose Host does not match
// allowedHosts are rejected; an empty pattern allows every host.
func NewServer(webhookURL, allowedHosts string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	var hostRegex *regexp.Regexp
	if allowedHosts != "" {
		re, err := regexp.Compile(allowedHosts)
		if err != nil {
			return nil, errors.ValidationInvalid("ALLOWED_HOSTS", err.Error())
		}
		hostRegex = re
	}

	engine := gin.New()

	s := &Server{
		engine:           engine,
		webhookURL:       webhookURL,
		allowedHostRegex: hostRegex,
		rateLimit: RateLimitConfig{
			WindowMs:    60 * time.Second,
			MaxRequests: 100,
		},
	}

	s.engine.Use(gin.CustomRecovery(s.recovery))
	s.engine.Use(corsMiddleware())
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())
	s.engine.Use(errorMiddleware())

	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) hostAllowed(host string) bool {
	return s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host)
}

// recovery hands panics to the anti-crash handler and answers 500
func (s *Server) recovery(c *gin.Context, recovered interface{}) {
	if h := errors.Get(); h != nil {
		h.HandlePanic(recovered)
	} else {
		logger.Error(fmt.Sprintf("Panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered), "WebServer")
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, errors.ToResponse(fmt.Errorf("panic: %v", recovered)))
}

// logsMiddleware rejects unknown hosts and logs every request once it is done
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host

		if !s.hostAllowed(host) {
			logger.Warn(fmt.Sprintf("[LOG] Suspicious request: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
			go s.sendLogToWebhook(c.Copy(), true)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.WithFields(logger.LevelError, "HTTP request failed", "WebServer", fields)
		case status >= 400:
			logger.WithFields(logger.LevelWarn, "HTTP request rejected", "WebServer", fields)
		default:
			logger.WithFields(logger.LevelDebug, "HTTP request", "WebServer", fields)
		}

		if c.Request.Method != http.MethodGet {
			go s.sendLogToWebhook(c.Copy(), false)
		}
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(c *gin.Context, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nova requisição %s ao console", c.Request.Method)
	color := 0x00AE86

	if suspicious {
		title = fmt.Sprintf("💫 | Requisição suspeita recusada: %s %s", c.Request.Method, c.Request.URL.Path)
		color = 0xFFA500
	}

	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	embed := map[string]interface{}{
		"title": title,
		"description": fmt.Sprintf(
			"> **Rota:** `%s`\n> **IP:** `%s`\n> **Host:** `%s`\n> **Query:** ```%s```",
			c.Request.URL.Path,
			c.ClientIP(),
			c.Request.Host,
			query,
		),
		"color":     color,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// corsMiddleware allows the browser console to call the API from another origin
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowMs    time.Duration
	MaxRequests int
}

// rateLimitMiddleware implements a simple rate limiter
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	type clientInfo struct {
		count   int
		resetAt time.Time
	}
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		info, exists := clients[ip]
		if !exists || now.After(info.resetAt) {
			info = &clientInfo{resetAt: now.Add(s.rateLimit.WindowMs)}
			clients[ip] = info
		}
		info.count++
		count := info.count
		mu.Unlock()

		if count > s.rateLimit.MaxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: errors.ErrorDetail{
					Code:    "rate_limited",
					Message: "Muitas requisições, tente novamente mais tarde.",
				},
			})
			return
		}

		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errors.ErrorResponse{
			Error: errors.ErrorDetail{Code: "route_not_found", Message: "A rota solicitada não existe."},
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errors.ErrorResponse{
			Error: errors.ErrorDetail{Code: "method_not_allowed", Message: "O método HTTP não é permitido nesta rota."},
		})
	})
	s.engine.HandleMethodNotAllowed = true
}

func (s *Server) newHTTPServer(port string) *http.Server {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Start starts the web server and blocks until it stops
func (s *Server) Start(port string) error {
	logger.Info(fmt.Sprintf("🚀 Console listening on http://localhost:%s", port), "WebServer")
	return serve(s.newHTTPServer(port))
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	srv := s.newHTTPServer(port)
	logger.Info(fmt.Sprintf("🚀 Console listening on http://localhost:%s", port), "WebServer")
	go func() {
		if err := serve(srv); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for running ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Package web 提供仪表盘页面、图表和 JSON 接口
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"SocialInsights/src/config"
	"SocialInsights/src/processor"
	"SocialInsights/src/storage"
)

const sessionCookie = "si_session"

// Server 仪表盘服务。每个请求独立运行一次完整流水线，
// 只有控件状态按会话保存在内存中。
type Server struct {
	cfg      *config.Config
	dc       *config.DataConfig
	loader   processor.Loader
	logger   *storage.Logger
	sessions *storage.SessionStore[processor.ViewState]
	router   *mux.Router
}

func NewServer(cfg *config.Config, dc *config.DataConfig, loader processor.Loader, logger *storage.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		dc:       dc,
		loader:   loader,
		logger:   logger,
		sessions: storage.NewSessionStore[processor.ViewState](cfg.Server.SessionTTL),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         86400,
	})

	r := s.router
	r.Use(corsHandler.Handler)
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/sample", s.handleSample).Methods("POST")

	ch := r.PathPrefix("/charts").Subrouter()
	ch.HandleFunc("/gender.png", s.handleGenderPNG).Methods("GET")
	ch.HandleFunc("/family.png", s.handleFamilyPNG).Methods("GET")
	ch.HandleFunc("/pie.png", s.handlePiePNG).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/towns", s.handleTowns).Methods("GET")
	api.HandleFunc("/describe", s.handleDescribe).Methods("GET")

	r.HandleFunc("/logs", s.handleLogs).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP 使 Server 可以直接用于 httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe 启动服务，ctx 取消后优雅关闭
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s,
		Addr:              s.cfg.Server.Addr,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("Starting server on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务关闭失败: %w", err)
	}
	s.logger.Info("Server shutdown completed")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/qna/internal/censor"
	"github.com/and161185/qna/internal/config"
	"github.com/and161185/qna/internal/limiter"
	"github.com/and161185/qna/internal/migrate"
	"github.com/and161185/qna/internal/repository"
	"github.com/and161185/qna/internal/repository/memory"
	"github.com/and161185/qna/internal/repository/postgres"
	httpserver "github.com/and161185/qna/internal/server/http"
	"github.com/and161185/qna/internal/service"
	"github.com/and161185/qna/internal/token"
)

// newLogger builds a production (json) or development (console) logger.
func newLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

type stores struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	accounts  repository.AccountRepository
	limiter   limiter.Limiter
	health    httpserver.Pinger
	close     func()
}

func openStores(ctx context.Context, c config.DatabaseConfig, log *zap.Logger) (*stores, error) {
	switch c.Type {
	case config.DatabaseMemory:
		log.Warn("using in-memory store; data is lost on restart")
		m := memory.New()
		return &stores{
			questions: m,
			answers:   m,
			accounts:  m,
			limiter:   limiter.NewMemory(limiter.DefaultPolicy),
			close:     func() {},
		}, nil
	case config.DatabasePostgres:
		if c.Migrate {
			if err := migrate.Up(ctx, c.DSN); err != nil {
				return nil, fmt.Errorf("migrate up: %w", err)
			}
		}
		db, err := postgres.New(ctx, c.DSN, c.MaxConns)
		if err != nil {
			return nil, err
		}
		return &stores{
			questions: postgres.NewQuestionRepo(db),
			answers:   postgres.NewAnswerRepo(db),
			accounts:  postgres.NewAccountRepo(db),
			limiter:   limiter.NewPG(db.Pool, limiter.DefaultPolicy),
			health:    db,
			close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database type %q", c.Type)
	}
}

type app struct {
	handler http.Handler
	stores  *stores
}

func (a *app) Close() { a.stores.close() }

// newApp wires stores, censor, tokens and services into the HTTP handler.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	st, err := openStores(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	words, err := censor.New(cfg.CensorConfig(), log)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("censor: %w", err)
	}
	tokens, err := token.NewManager([]byte(cfg.Auth.TokenKey), cfg.Auth.TokenTTL.Duration)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("token manager: %w", err)
	}

	srv := httpserver.New(
		service.NewQuestionService(st.questions, words),
		service.NewAnswerService(st.answers, st.questions, words),
		service.NewAuthService(st.accounts, tokens, st.limiter),
		tokens,
		log,
		httpserver.Options{
			RequestTimeout: cfg.Server.RequestTimeout.Duration,
			Health:         st.health,
		},
	)
	return &app{handler: srv.Handler(), stores: st}, nil
}

// serve runs until ctx is done, then drains in-flight requests for at most
// the shutdown grace period.
func serve(ctx context.Context, c config.ServerConfig, h http.Handler, log *zap.Logger) error {
	s := &http.Server{
		Addr:              c.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		if c.TLSCert != "" {
			log.Info("listening (TLS)", zap.String("addr", c.Addr))
			errCh <- s.ListenAndServeTLS(c.TLSCert, c.TLSKey)
			return
		}
		log.Info("listening", zap.String("addr", c.Addr))
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownGrace.Duration)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown timed out", zap.Error(err))
			_ = s.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			return err
		}
	}

	log.Info("shutdown complete")
	return nil
}

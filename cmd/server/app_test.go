package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/qna/internal/config"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Type = config.DatabaseMemory
	cfg.Censor.Mode = "local"
	cfg.Censor.Words = []string{"shit"}
	cfg.Auth.TokenKey = strings.Repeat("k", 32)
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownGrace = config.Duration{Duration: time.Second}
	return cfg
}

func Test_newLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := newLogger(config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("%s: debug level not enabled", format)
		}
	}
	if _, err := newLogger(config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatalf("want error for unknown level")
	}
}

func Test_newApp_Memory(t *testing.T) {
	cfg := memoryConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	a, err := newApp(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"email":"a@b.c","password":"pw"}`)
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body)
	}
}

func Test_newApp_ShortTokenKey(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.TokenKey = "short"
	if _, err := newApp(context.Background(), cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("want error for short token key")
	}
}

func Test_serve_StopsOnCancel(t *testing.T) {
	cfg := memoryConfig()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg.Server, http.NotFoundHandler(), zaptest.NewLogger(t))
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func Test_configCmd_PrintsDefaults(t *testing.T) {
	var out bytes.Buffer
	configCmd.SetOut(&out)
	if err := configCmd.RunE(configCmd, nil); err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out.String(), "[server]") {
		t.Fatalf("missing [server] section:\n%s", out.String())
	}
}

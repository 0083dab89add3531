// Package main contains integration tests for the API server process.
package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

func startTestServer(t *testing.T, handler http.Handler) (*http.Server, string, chan struct{}) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			t.Errorf("server error: %v", err)
		}
		close(stopped)
	}()

	return server, ln.Addr().String(), stopped
}

func TestGracefulShutdownLogOrder(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuf, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server, addr, stopped := startTestServer(t, mux)
	logger.Info("starting server", "addr", addr)

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	resp.Body.Close()

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	logger.Info("server stopped")

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("server failed to stop in time")
	}

	logs := logBuf.String()
	startIdx := strings.Index(logs, "starting server")
	shutdownIdx := strings.Index(logs, "shutting down server")
	stoppedIdx := strings.Index(logs, "server stopped")
	if startIdx == -1 || shutdownIdx == -1 || stoppedIdx == -1 {
		t.Fatalf("missing lifecycle log lines: %s", logs)
	}
	if startIdx > shutdownIdx || shutdownIdx > stoppedIdx {
		t.Errorf("lifecycle logs out of order: %s", logs)
	}
}

func TestGracefulShutdownWaitsForInFlightRequests(t *testing.T) {
	var mu sync.Mutex
	var completed bool
	handlerStarted := make(chan struct{})
	handlerCanContinue := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		close(handlerStarted)
		<-handlerCanContinue
		w.WriteHeader(http.StatusOK)
		mu.Lock()
		completed = true
		mu.Unlock()
	})

	server, addr, stopped := startTestServer(t, mux)

	requestDone := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + addr + "/slow")
		if err != nil {
			t.Errorf("request error: %v", err)
			requestDone <- 0
			return
		}
		resp.Body.Close()
		requestDone <- resp.StatusCode
	}()

	select {
	case <-handlerStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not start in time")
	}

	shutdownDone := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			t.Errorf("shutdown error: %v", err)
		}
		close(shutdownDone)
	}()

	// Let shutdown begin, then release the in-flight handler.
	time.Sleep(50 * time.Millisecond)
	close(handlerCanContinue)

	select {
	case status := <-requestDone:
		if status != http.StatusOK {
			t.Errorf("in-flight request status = %d, want %d", status, http.StatusOK)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}

	select {
	case <-shutdownDone:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	if !completed {
		t.Error("in-flight request was cut off by shutdown")
	}
}

func TestSignalNotify(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			time.Sleep(50 * time.Millisecond)
			syscall.Kill(syscall.Getpid(), sig)
		}()

		select {
		case got := <-quit:
			if got != sig {
				t.Errorf("received %v, want %v", got, sig)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("did not receive %v in time", sig)
		}
		signal.Stop(quit)
	}
}

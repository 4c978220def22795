package main

import (
	"context"
	"net"
	"net/http"
	"testing"
)

func TestServeReturnsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String()}
	if err := serve(srv); err == nil {
		t.Fatalf("expected bind error on occupied port")
	}
}

func TestServeFiltersServerClosed(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0"}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	// ListenAndServe after Shutdown returns ErrServerClosed immediately.
	if err := serve(srv); err != nil {
		t.Fatalf("expected nil after shutdown, got %v", err)
	}
}

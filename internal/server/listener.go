package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
)

// listener holds the http.Server behind Start and Shutdown. Addr reports the
// configured address until Start binds, then the bound one, so ":0" resolves
// to the chosen port.
type listener struct {
	name   string
	logger *slog.Logger

	mu   sync.Mutex
	addr string
	srv  *http.Server
}

func (l *listener) serve(srv *http.Server) error {
	ln, err := net.Listen("tcp", l.Addr())
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.addr = ln.Addr().String()
	l.srv = srv
	l.mu.Unlock()

	l.logger.Info("starting "+l.name, slog.String("addr", ln.Addr().String()))
	return srv.Serve(ln)
}

// Shutdown drains open requests. It is a no-op before Start.
func (l *listener) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	srv := l.srv
	l.mu.Unlock()

	if srv == nil {
		return nil
	}
	l.logger.Info("shutting down " + l.name)
	return srv.Shutdown(ctx)
}

func (l *listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

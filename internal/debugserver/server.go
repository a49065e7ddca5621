// Package debugserver serves the active meeting list and pprof endpoints
// over HTTP while a bot is running.
package debugserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/bot"
	"github.com/aliceinwire/meetbot2/pkg/iojson"
)

// Meetings is the part of the registry the server reports on.
type Meetings interface {
	List() []bot.Key
	Recent() []bot.Started
}

type meetingJSON struct {
	Channel string `json:"channel"`
	Network string `json:"network"`
}

type startedJSON struct {
	Channel string    `json:"channel"`
	Network string    `json:"network"`
	At      time.Time `json:"at"`
}

type statusJSON struct {
	Active []meetingJSON `json:"active"`
	Recent []startedJSON `json:"recent"`
}

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	log        zerolog.Logger
}

// New creates a server that will listen on addr, for example
// "127.0.0.1:6060". Port 0 picks a free port.
func New(addr string, meetings Meetings, logger zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           Handler(meetings),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr: addr,
		log:  logger,
	}
}

// Handler returns the routes served by the debug server.
func Handler(meetings Meetings) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /meetings", func(w http.ResponseWriter, _ *http.Request) {
		status := statusJSON{Active: []meetingJSON{}, Recent: []startedJSON{}}
		for _, k := range meetings.List() {
			status.Active = append(status.Active, meetingJSON{Channel: k.Channel, Network: k.Network})
		}
		for _, s := range meetings.Recent() {
			status.Recent = append(status.Recent, startedJSON{Channel: s.Channel, Network: s.Network, At: s.At})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = iojson.WriteLine(w, status)
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Start listens and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("debug server listen: %w", err)
	}
	s.listener = listener
	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting debug server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("debug server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down debug server")
	return s.httpServer.Shutdown(ctx)
}

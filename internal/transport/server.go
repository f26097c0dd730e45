package transport

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"matchcore/internal/dispatcher"
	"matchcore/internal/notifier"
	"matchcore/internal/session"
)

// SessionMetrics is the narrow interface the server needs to track
// connection churn; nil is a valid no-op value.
type SessionMetrics interface {
	SessionConnected()
	SessionDisconnected()
}

// Server accepts TLS-terminated TCP connections and hands each one to
// its own conn for the lifetime of the socket.
type Server struct {
	listener net.Listener
	reg      *session.Registry
	disp     *dispatcher.Dispatcher
	notf     *notifier.Notifier
	metrics  SessionMetrics
	log      *logrus.Entry

	ids session.IDCounter
	wg  sync.WaitGroup
}

// Listen wraps addr in a TLS listener built from certFile/keyFile.
func Listen(addr, certFile, keyFile string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	return tls.Listen("tcp", addr, cfg)
}

// NewServer constructs a server over an already-bound listener. m may
// be nil, in which case session connect/disconnect counts are simply
// not recorded.
func NewServer(listener net.Listener, reg *session.Registry, disp *dispatcher.Dispatcher, notf *notifier.Notifier, m SessionMetrics, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Server{listener: listener, reg: reg, disp: disp, notf: notf, metrics: m, log: log}
}

// Serve accepts connections until ctx is cancelled or the listener
// errors, spawning one goroutine per connection. It returns once every
// spawned connection goroutine has exited.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.wg.Wait()
				return nil
			default:
				return err
			}
		}

		id := s.ids.Next()
		c := newConn(nc, id, s.reg, s.disp, s.notf, s.log.WithField("session_id", id))

		if s.metrics != nil {
			s.metrics.SessionConnected()
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if s.metrics != nil {
					s.metrics.SessionDisconnected()
				}
			}()
			c.serve(ctx)
		}()
	}
}

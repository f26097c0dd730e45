package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"

	"github.com/sirupsen/logrus"

	"matchcore/internal/dispatcher"
	"matchcore/internal/engine"
	"matchcore/internal/notifier"
	"matchcore/internal/session"
)

const outboundQueueDepth = 256

// conn owns one client connection end to end: reading commands,
// writing synchronous responses, and draining the fill channel the
// notifier delivers to onto the same socket.
type conn struct {
	nc   net.Conn
	sess *session.Session
	reg  *session.Registry
	disp *dispatcher.Dispatcher
	notf *notifier.Notifier
	log  *logrus.Entry

	out  chan engine.Fill
	send chan string // synchronous ACK/ERROR lines, serialized with FILL lines in writeLoop
}

func newConn(nc net.Conn, id engine.SessionID, reg *session.Registry, disp *dispatcher.Dispatcher, notf *notifier.Notifier, log *logrus.Entry) *conn {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &conn{
		nc:   nc,
		sess: session.New(id),
		reg:  reg,
		disp: disp,
		notf: notf,
		log:  log,
		out:  make(chan engine.Fill, outboundQueueDepth),
		send: make(chan string, outboundQueueDepth),
	}
}

// serve runs the connection until the client disconnects, a write
// fails, or ctx is cancelled. It registers the session with the
// notifier on entry and unregisters it on every exit path.
func (c *conn) serve(ctx context.Context) {
	c.notf.Register(c.sess.ID, c.out, func() { c.nc.Close() })
	defer c.notf.Unregister(c.sess.ID)
	defer c.sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx)
		c.nc.Close() // unblocks readLoop after a write failure or cancellation
	}()

	c.readLoop(ctx)

	cancel()
	c.nc.Close()
	<-writerDone
}

// readLoop parses one line at a time and writes the synchronous
// response for each command. It returns once the connection closes or
// errors.
func (c *conn) readLoop(ctx context.Context) {
	reader := bufio.NewReader(c.nc)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				c.log.WithFields(logrus.Fields{
					"session_id": c.sess.ID,
					"error":      err,
				}).Debug("connection read error")
			}
			return
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		c.handleLine(line)
	}
}

func (c *conn) handleLine(line string) {
	cmd, err := parseLine(line)
	if err != nil {
		if err == ErrUnknownCommand {
			c.writeLine("Unknown command\n")
			return
		}
		c.writeLine("ERROR: " + err.Error() + "\n")
		return
	}

	switch v := cmd.(type) {
	case loginCommand:
		c.handleLogin(v)
	case orderCommand:
		c.handleOrder(v)
	}
}

func (c *conn) handleLogin(cmd loginCommand) {
	if !c.reg.Authenticate(cmd.user, cmd.pass) {
		c.writeLine("LOGIN FAILED\n")
		return
	}
	c.sess.Login(cmd.user)
	c.writeLine("LOGIN OK\n")
}

func (c *conn) handleOrder(cmd orderCommand) {
	cmd.order.Session = c.sess.ID
	cmd.order.Authed = c.sess.Authenticated()

	if _, err := c.disp.Enqueue(cmd.order); err != nil {
		c.writeLine("ERROR: " + err.Error() + "\n")
		return
	}
	c.writeLine("ORDER ACCEPTED\n")
}

// writeLine queues a synchronous response line onto the same writer
// goroutine that drains fills, so a LOGIN/ORDER response and an
// interleaved FILL line never tear each other mid-write.
func (c *conn) writeLine(s string) {
	select {
	case c.send <- s:
	default:
		c.log.WithField("session_id", c.sess.ID).Warn("response queue full, dropping connection")
		c.nc.Close()
	}
}

func (c *conn) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-c.send:
			if !ok {
				return
			}
			if _, err := io.WriteString(c.nc, s); err != nil {
				return
			}
		case f, ok := <-c.out:
			if !ok {
				return
			}
			if _, err := io.WriteString(c.nc, formatFill(f)); err != nil {
				return
			}
		}
	}
}

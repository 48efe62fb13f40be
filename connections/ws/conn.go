// Package ws is a minimal loopback WebSocket connection pair carrying the
// same connections.Envelope framing as connections/loopback, demonstrating
// that the dialogue core is indifferent to what is actually underneath it.
// It is grounded on the teacher's transport/ws.go: the same gobwas/ws
// dialer/upgrader pairing, stripped of the teacher's SIP-specific parsing,
// connection pooling, and reference counting (this package serves exactly
// one connection per Dial, for the demo CLI's two-process-on-one-machine
// use case, not a long-lived server fielding many peers).
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	gws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/edgarnunogubinvest/agents-aea/connections"
)

// Conn adapts a gobwas/ws-upgraded net.Conn to the io.Reader/io.Writer pair
// connections.WriteEnvelope/ReadEnvelope expect, framing each call as one
// WebSocket text message.
type Conn struct {
	net.Conn
	clientSide bool
}

func (c *Conn) Read(b []byte) (n int, err error) {
	state := gws.StateServerSide
	if c.clientSide {
		state = gws.StateClientSide
	}
	reader := wsutil.NewReader(c.Conn, state)
	for {
		header, err := reader.NextFrame()
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				return n, nil
			}
			return n, err
		}
		if header.OpCode == gws.OpClose {
			return n, net.ErrClosed
		}

		chunk := make([]byte, header.Length)
		if _, err := io.ReadFull(c.Conn, chunk); err != nil {
			return n, err
		}
		if header.Masked {
			gws.Cipher(chunk, header.Mask, 0)
		}
		n += copy(b[n:], chunk)
		if header.Fin {
			break
		}
	}
	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	frame := gws.NewFrame(gws.OpText, true, b)
	if c.clientSide {
		frame = gws.MaskFrameInPlace(frame)
	}
	if err := gws.WriteFrame(c.Conn, frame); err != nil {
		return 0, err
	}
	return len(b), nil
}

// WriteEnvelope frames and writes one envelope as a WebSocket message.
func (c *Conn) WriteEnvelope(env connections.Envelope) error {
	return connections.WriteEnvelope(c, env)
}

// ReadEnvelope blocks until one full envelope has arrived.
func (c *Conn) ReadEnvelope() (connections.Envelope, error) {
	return connections.ReadEnvelope(c)
}

// Listen opens a TCP listener on addr for Accept to use, binding to an
// OS-assigned port when addr's port is "0". addr must include a port.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Accept upgrades the next incoming connection on l to WebSocket and
// returns the server-side Conn.
func Accept(l net.Listener) (*Conn, error) {
	raw, err := l.Accept()
	if err != nil {
		return nil, fmt.Errorf("connections/ws: accept: %w", err)
	}
	if _, err := gws.Upgrade(raw); err != nil {
		raw.Close()
		return nil, fmt.Errorf("connections/ws: upgrade: %w", err)
	}
	return &Conn{Conn: raw, clientSide: false}, nil
}

// Dial connects to a listener started with Listen/Accept and returns the
// client-side Conn.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	raw, _, _, err := gws.DefaultDialer.Dial(ctx, "ws://"+addr)
	if err != nil {
		return nil, fmt.Errorf("connections/ws: dial %s: %w", addr, err)
	}
	return &Conn{Conn: raw, clientSide: true}, nil
}

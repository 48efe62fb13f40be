// Package loopback provides an in-process connection pair carrying the
// shared length-prefixed JSON envelope, standing in for inbox/outbox over
// a real transport. It is grounded on the teacher's fakes.TCPConn: a
// Reader/Writer pair wired directly to the peer's Writer/Reader, with no
// real socket underneath.
package loopback

import (
	"net"

	"github.com/edgarnunogubinvest/agents-aea/connections"
)

// Addr is the degenerate net.Addr for a loopback endpoint: just a name.
type Addr string

func (a Addr) Network() string { return "loopback" }
func (a Addr) String() string  { return string(a) }

// Conn is one end of an in-process connection. WriteEnvelope/ReadEnvelope
// are the only operations cmd/agentdialogued needs; the underlying pipes
// are unexported and not reachable from outside this package.
type Conn struct {
	local, remote Addr
	r             *chanPipe
	w             *chanPipe
}

// NewPair returns two ends of an in-process connection, named localAddr
// and remoteAddr respectively; writes to one end's WriteEnvelope become
// reads from the other end's ReadEnvelope.
func NewPair(localAddr, remoteAddr string) (*Conn, *Conn) {
	ab := newChanPipe()
	ba := newChanPipe()

	a := &Conn{local: Addr(localAddr), remote: Addr(remoteAddr), r: ba, w: ab}
	b := &Conn{local: Addr(remoteAddr), remote: Addr(localAddr), r: ab, w: ba}
	return a, b
}

func (c *Conn) LocalAddr() net.Addr  { return c.local }
func (c *Conn) RemoteAddr() net.Addr { return c.remote }

// WriteEnvelope frames and writes one envelope to the peer.
func (c *Conn) WriteEnvelope(env connections.Envelope) error {
	return connections.WriteEnvelope(c.w, env)
}

// ReadEnvelope blocks until one full envelope has arrived from the peer.
func (c *Conn) ReadEnvelope() (connections.Envelope, error) {
	return connections.ReadEnvelope(c.r)
}

// Close closes this end's write side, which unblocks the peer's pending
// ReadEnvelope with io.EOF once its buffered frames are drained.
func (c *Conn) Close() error {
	return c.w.Close()
}

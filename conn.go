package gatt

import (
	"github.com/sirupsen/logrus"
)

// defaultMTU is the ATT default MTU, used until Exchange-MTU
// negotiates a larger one (Vol 3, Part F, 3.4.2).
const defaultMTU = 23

// outbound pairs a framed PDU with the completion callback to run
// once it has actually been handed to the socket.
type outbound struct {
	pdu        []byte
	onComplete func()
}

// pduHandler is what Conn.Register binds to an opcode: the
// minimum payload length Conn itself enforces before dispatch,
// and the function that decodes and answers the rest.
type pduHandler struct {
	minLen int
	fn     func(c *Conn, payload []byte)
}

// A Conn is one ATT bearer: it frames and unframes PDUs over a
// Socket, tracks the negotiated MTU, and dispatches inbound PDUs
// to handlers registered by opcode. Conn itself holds no GATT
// semantics; the GATTServer registers the handler for every
// opcode it supports (see server.go).
type Conn struct {
	socket Socket

	mtu    uint16
	maxMTU uint16

	handlers map[byte]pduHandler

	// pendingRequest is the opcode of the client request currently
	// being answered: set when its handler is invoked, cleared once
	// that handler has enqueued its response. Since handlers run to
	// completion synchronously inside PollRead, this never spans two
	// PollRead calls, but it still makes the "at most one outstanding
	// request" invariant a field on Conn rather than an implicit
	// stack discipline.
	pendingRequest *byte

	// mtuExchanged is set by the first Exchange-MTU-Request this
	// bearer answers. Per Vol 3, Part F, 3.4.2, a client may
	// negotiate the MTU only once per connection; later requests
	// are a protocol error.
	mtuExchanged bool

	sendQueue []outbound

	log *logrus.Entry
}

// NewConn wraps socket in an ATT bearer willing to negotiate up
// to maxMTU. If maxMTU is below defaultMTU, defaultMTU is used.
func NewConn(socket Socket, maxMTU uint16) *Conn {
	if maxMTU < defaultMTU {
		maxMTU = defaultMTU
	}
	return &Conn{
		socket:   socket,
		mtu:      defaultMTU,
		maxMTU:   maxMTU,
		handlers: make(map[byte]pduHandler),
		log:      logrus.WithField("component", "att.conn"),
	}
}

// Register binds fn as the handler for opcode. minLen is the
// smallest payload (the bytes after the opcode byte) PollRead
// will pass through to fn; anything shorter is rejected as
// InvalidPDU without invoking fn at all.
func (c *Conn) Register(opcode byte, minLen int, fn func(c *Conn, payload []byte)) {
	c.handlers[opcode] = pduHandler{minLen: minLen, fn: fn}
}

// MTU returns the currently negotiated MTU.
func (c *Conn) MTU() uint16 { return c.mtu }

// SetMTU negotiates the bearer MTU to max(defaultMTU,
// min(requested, maxMTU)), per spec.md's Exchange-MTU rule, and
// returns the negotiated value.
func (c *Conn) SetMTU(requested uint16) uint16 {
	mtu := requested
	if mtu > c.maxMTU {
		mtu = c.maxMTU
	}
	if mtu < defaultMTU {
		mtu = defaultMTU
	}
	c.mtu = mtu
	return mtu
}

// MTUExchanged reports whether a client Exchange-MTU-Request has
// already been answered on this bearer.
func (c *Conn) MTUExchanged() bool { return c.mtuExchanged }

// MarkMTUExchanged records that Exchange-MTU has been answered, so
// a later request can be rejected per Vol 3, Part F, 3.4.2.
func (c *Conn) MarkMTUExchanged() { c.mtuExchanged = true }

// SecurityLevel reports the underlying socket's current security
// classification.
func (c *Conn) SecurityLevel() SecurityLevel { return c.socket.SecurityLevel() }

// PendingRequest reports the opcode of the request currently
// being handled, if any.
func (c *Conn) PendingRequest() (opcode byte, pending bool) {
	if c.pendingRequest == nil {
		return 0, false
	}
	return *c.pendingRequest, true
}

// Send enqueues pdu for delivery on the next PollWrite. onComplete,
// if non-nil, runs immediately after pdu is handed to the socket,
// in enqueue order relative to every other queued PDU.
func (c *Conn) Send(pdu []byte, onComplete func()) {
	c.sendQueue = append(c.sendQueue, outbound{pdu: pdu, onComplete: onComplete})
}

// SendError enqueues an Error-Response answering request opcode
// reqOpcode for attribute handle h.
func (c *Conn) SendError(reqOpcode byte, code AttError, h uint16) {
	c.log.WithFields(logrus.Fields{"opcode": reqOpcode, "handle": h, "error": code}).Warn("att error response")
	c.Send(errorResponse(reqOpcode, h, code), nil)
}

// PollRead reads and dispatches one inbound PDU. It never blocks
// past the Socket's own Read semantics: with a LoopbackSocket,
// that means it blocks until a datagram is available or the
// bearer is closed.
func (c *Conn) PollRead() error {
	buf := make([]byte, c.maxMTU)
	n, err := c.socket.Read(buf)
	if err != nil {
		return wrapf(err, "att: read")
	}
	if n == 0 {
		return nil
	}
	pdu := buf[:n]
	opcode := pdu[0]
	payload := pdu[1:]

	h, ok := c.handlers[opcode]
	if !ok {
		if isCommand(opcode) {
			c.log.WithField("opcode", opcode).Debug("dropping unsupported command")
			return nil
		}
		c.log.WithField("opcode", opcode).Warn("unsupported opcode")
		c.SendError(opcode, ErrRequestNotSupp, 0)
		return nil
	}

	if len(payload) < h.minLen {
		if isCommand(opcode) {
			c.log.WithField("opcode", opcode).Debug("dropping malformed command")
			return nil
		}
		c.log.WithField("opcode", opcode).Warn("malformed PDU")
		c.SendError(opcode, ErrInvalidPDU, 0)
		return nil
	}

	c.log.WithFields(logrus.Fields{"opcode": opcode, "mtu": c.mtu}).Debug("dispatch")
	if isRequest(opcode) {
		op := opcode
		c.pendingRequest = &op
	}
	h.fn(c, payload)
	if isRequest(opcode) {
		c.pendingRequest = nil
	}
	return nil
}

// PollWrite flushes every queued outbound PDU to the socket, in
// the order they were enqueued, running each one's completion
// callback right after the write.
func (c *Conn) PollWrite() error {
	for len(c.sendQueue) > 0 {
		item := c.sendQueue[0]
		c.sendQueue = c.sendQueue[1:]
		if _, err := c.socket.Write(item.pdu); err != nil {
			return wrapf(err, "att: write")
		}
		if item.onComplete != nil {
			item.onComplete()
		}
	}
	return nil
}

// Close tears down the underlying socket.
func (c *Conn) Close() error {
	return c.socket.Close()
}

package gatt

import (
	"github.com/blang/semver"
	"github.com/sirupsen/logrus"
)

// decodeHandleRange reads the start/end handle pair every
// group-addressed ATT request opens with.
func decodeHandleRange(payload []byte) (start, end uint16) {
	start = uint16(payload[0]) | uint16(payload[1])<<8
	end = uint16(payload[2]) | uint16(payload[3])<<8
	return start, end
}

// A GATTServer answers ATT requests against a Database. It holds
// no transport state of its own; Serve registers its handlers on
// a Conn, so one GATTServer can back many concurrent bearers.
type GATTServer struct {
	db  *Database
	log *logrus.Entry
}

// NewGATTServer returns a server backed by db.
func NewGATTServer(db *Database) *GATTServer {
	return &GATTServer{db: db, log: logrus.WithField("component", "gatt.server")}
}

// Database returns the server's backing attribute database.
func (s *GATTServer) Database() *Database { return s.db }

// Version returns the package's semantic protocol/library version.
func (s *GATTServer) Version() semver.Version { return Version() }

// Serve registers a handler for every opcode this server answers
// on conn. Call it once per Conn before polling it.
func (s *GATTServer) Serve(conn *Conn) {
	conn.Register(opMtuReq, 2, s.handleExchangeMTU)
	conn.Register(opReadByGroupReq, 6, s.handleReadByGroupType) // start+end+16-bit type, minimum
	conn.Register(opReadByTypeReq, 6, s.handleReadByType)       // start+end+16-bit type, minimum
	conn.Register(opFindInfoReq, 4, s.handleFindInformation)
	conn.Register(opFindByTypeReq, 6, s.handleFindByTypeValue)
	conn.Register(opWriteReq, 2, s.handleWriteRequest)
	conn.Register(opWriteCmd, 2, s.handleWriteCommand)
}

// checkRange validates the common start/end handle prologue every
// range-addressed request shares: neither handle may be zero, and
// start must not exceed end. On failure it sends the Error-Response
// itself and reports false. The error cites start, except that
// Read-By-Group-Type cites handle 0 for a zero bound specifically,
// per spec.md §4.3 step 2.
func (s *GATTServer) checkRange(c *Conn, reqOp byte, start, end uint16) bool {
	if start == 0 || end == 0 {
		h := start
		if reqOp == opReadByGroupReq {
			h = 0
		}
		c.SendError(reqOp, ErrInvalidHandle, h)
		return false
	}
	if start > end {
		c.SendError(reqOp, ErrInvalidHandle, start)
		return false
	}
	return true
}

// handleExchangeMTU negotiates the bearer MTU to
// max(23, min(client_mtu, server_mtu)) and echoes the server's own
// MTU back, per Vol 3, Part F, 3.4.2. A client may negotiate the
// MTU only once per connection; a later request is a protocol
// error.
func (s *GATTServer) handleExchangeMTU(c *Conn, payload []byte) {
	if c.MTUExchanged() {
		c.SendError(opMtuReq, ErrRequestNotSupp, 0)
		return
	}
	clientMTU := uint16(payload[0]) | uint16(payload[1])<<8
	serverMTU := c.maxMTU
	c.SetMTU(clientMTU)
	c.MarkMTUExchanged()
	c.Send([]byte{opMtuResp, byte(serverMTU), byte(serverMTU >> 8)}, nil)
}

// handleReadByGroupType answers Read-By-Group-Type-Request. Only
// the primary (0x2800) and secondary (0x2801) service declaration
// types are valid group types; anything else is
// Unsupported-Group-Type.
func (s *GATTServer) handleReadByGroupType(c *Conn, payload []byte) {
	start, end := decodeHandleRange(payload)
	if !s.checkRange(c, opReadByGroupReq, start, end) {
		return
	}
	typ := uuidFromWire(payload[4:])

	var primary bool
	switch {
	case typ.Equal(primaryServiceUUID):
		primary = true
	case typ.Equal(secondaryServiceUUID):
		primary = false
	default:
		c.SendError(opReadByGroupReq, ErrUnsuppGroupType, start)
		return
	}

	groups := s.db.ReadByGroupType(start, end, primary)
	if len(groups) == 0 {
		c.SendError(opReadByGroupReq, ErrAttrNotFound, start)
		return
	}

	b := newRecordBuilder(int(c.MTU()), opReadByGroupResp, true)
	for _, g := range groups {
		val := g.uuid.wireBytes()
		rec := make([]byte, 0, 4+len(val))
		rec = append(rec, byte(g.start), byte(g.start>>8), byte(g.end), byte(g.end>>8))
		rec = append(rec, val...)
		if !b.add(rec, byte(len(rec))) {
			break
		}
	}
	if b.empty() {
		c.SendError(opReadByGroupReq, ErrInsuffResources, start)
		return
	}
	c.Send(b.bytes(), nil)
}

// handleReadByType answers Read-By-Type-Request. The first
// matching attribute's read permission gates the whole response;
// if its value alone would overflow the MTU, the response carries
// that single attribute truncated to fit, per Vol 3, Part F,
// 3.4.4.1.
func (s *GATTServer) handleReadByType(c *Conn, payload []byte) {
	start, end := decodeHandleRange(payload)
	if !s.checkRange(c, opReadByTypeReq, start, end) {
		return
	}
	typ := uuidFromWire(payload[4:])

	attrs := s.db.ReadByType(start, end, typ)
	if len(attrs) == 0 {
		c.SendError(opReadByTypeReq, ErrAttrNotFound, start)
		return
	}

	first := attrs[0]
	if ok, reason := checkPermission(Read, first.Permissions, c.SecurityLevel()); !ok {
		c.SendError(opReadByTypeReq, reason, first.Handle)
		return
	}

	mtu := int(c.MTU())
	maxValueLen := mtu - 4
	firstVal := first.Value
	truncated := false
	if len(firstVal) > maxValueLen {
		firstVal = firstVal[:maxValueLen]
		truncated = true
	}

	b := newRecordBuilder(mtu, opReadByTypeResp, true)
	rec := append([]byte{byte(first.Handle), byte(first.Handle >> 8)}, firstVal...)
	b.add(rec, byte(len(rec)))

	if !truncated {
		for _, a := range attrs[1:] {
			if ok, _ := checkPermission(Read, a.Permissions, c.SecurityLevel()); !ok {
				break
			}
			rec := append([]byte{byte(a.Handle), byte(a.Handle >> 8)}, a.Value...)
			if !b.add(rec, byte(len(rec))) {
				break
			}
		}
	}
	c.Send(b.bytes(), nil)
}

// handleFindInformation answers Find-Information-Request. The
// type-length of the first attribute in range fixes the response
// format (16-bit or 128-bit UUIDs); later attributes of a
// different length are skipped rather than ending the response.
func (s *GATTServer) handleFindInformation(c *Conn, payload []byte) {
	start, end := decodeHandleRange(payload)
	if !s.checkRange(c, opFindInfoReq, start, end) {
		return
	}
	attrs := s.db.FindInformation(start, end)
	if len(attrs) == 0 {
		c.SendError(opFindInfoReq, ErrAttrNotFound, start)
		return
	}

	format := attrs[0].Type.Len()
	meta := byte(0x01)
	if format == 16 {
		meta = 0x02
	}

	b := newRecordBuilder(int(c.MTU()), opFindInfoResp, true)
	for _, a := range attrs {
		if a.Type.Len() != format {
			continue
		}
		rec := append([]byte{byte(a.Handle), byte(a.Handle >> 8)}, a.Type.wireBytes()...)
		if !b.add(rec, meta) {
			break
		}
	}
	if b.empty() {
		c.SendError(opFindInfoReq, ErrInsuffResources, start)
		return
	}
	c.Send(b.bytes(), nil)
}

// handleFindByTypeValue answers Find-By-Type-Value-Request: every
// attribute in range whose 16-bit type and value match exactly,
// paired with the end handle of its enclosing service group.
func (s *GATTServer) handleFindByTypeValue(c *Conn, payload []byte) {
	start, end := decodeHandleRange(payload)
	if !s.checkRange(c, opFindByTypeReq, start, end) {
		return
	}
	typ := UUID16(uint16(payload[4]) | uint16(payload[5])<<8)
	value := payload[6:]

	found := s.db.FindByTypeValue(start, end, typ, value)
	if len(found) == 0 {
		c.SendError(opFindByTypeReq, ErrAttrNotFound, start)
		return
	}

	b := newRecordBuilder(int(c.MTU()), opFindByTypeResp, false)
	for _, f := range found {
		rec := []byte{byte(f.Handle), byte(f.Handle >> 8), byte(f.GroupEndHandle), byte(f.GroupEndHandle >> 8)}
		if !b.add(rec, 0) {
			break
		}
	}
	if b.empty() {
		c.SendError(opFindByTypeReq, ErrInsuffResources, start)
		return
	}
	c.Send(b.bytes(), nil)
}

// writeAttribute applies the common Write-Request/Write-Command
// routine: look up the handle, gate it against the write
// permission, then mutate the database.
func (s *GATTServer) writeAttribute(h uint16, value []byte, level SecurityLevel) (reason AttError, ok bool) {
	attr, exists := s.db.At(h)
	if !exists {
		return ErrInvalidHandle, false
	}
	if ok, reason := checkPermission(Write, attr.Permissions, level); !ok {
		return reason, false
	}
	s.db.Write(h, value)
	return 0, true
}

// handleWriteRequest answers Write-Request with a Write-Response
// on success, or an Error-Response on a permission or handle
// failure.
func (s *GATTServer) handleWriteRequest(c *Conn, payload []byte) {
	h := uint16(payload[0]) | uint16(payload[1])<<8
	value := payload[2:]
	if reason, ok := s.writeAttribute(h, value, c.SecurityLevel()); !ok {
		c.SendError(opWriteReq, reason, h)
		return
	}
	c.Send([]byte{opWriteResp}, nil)
}

// handleWriteCommand applies Write-Command. Commands never
// receive a response, success or failure, per Vol 3, Part F,
// 3.4.5.3, so failures are logged and otherwise silently dropped.
func (s *GATTServer) handleWriteCommand(c *Conn, payload []byte) {
	h := uint16(payload[0]) | uint16(payload[1])<<8
	value := payload[2:]
	if reason, ok := s.writeAttribute(h, value, c.SecurityLevel()); !ok {
		s.log.WithFields(logrus.Fields{"handle": h, "error": reason}).Debug("write command dropped")
	}
}

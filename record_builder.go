package gatt

// A recordBuilder accumulates same-length records into an ATT
// response PDU, as spec.md's design notes require: record length
// is fixed by the first accepted record, and every later record
// of a different length is rejected rather than filtered out
// after the fact. It also enforces the MTU bound as records are
// added, so callers never build an oversized PDU only to trim it.
type recordBuilder struct {
	mtu     int
	opcode  byte
	hasMeta bool
	meta    byte // length or format byte, valid once recLen != 0
	recLen  int
	buf     []byte
}

// newRecordBuilder starts a response builder for opcode, bound to
// mtu bytes total (including the opcode and optional meta byte).
// If withMeta is true, a second header byte — length for
// Read-By-Type/Read-By-Group-Type, format for Find-Information —
// is written ahead of the records once the first one fixes it.
func newRecordBuilder(mtu int, opcode byte, withMeta bool) *recordBuilder {
	return &recordBuilder{mtu: mtu, opcode: opcode, hasMeta: withMeta}
}

func (b *recordBuilder) headerLen() int {
	if b.hasMeta {
		return 2
	}
	return 1
}

// add appends one record of the given meta value (ignored unless
// the builder was built withMeta). It reports whether the record
// was accepted: false means either a record-length mismatch with
// an already-fixed length, or the MTU would be exceeded: the
// caller should stop adding further records either way.
func (b *recordBuilder) add(rec []byte, meta byte) bool {
	if b.recLen == 0 {
		if b.headerLen()+len(rec) > b.mtu {
			return false
		}
		b.recLen = len(rec)
		b.meta = meta
	} else if len(rec) != b.recLen {
		return false
	}
	if b.headerLen()+len(b.buf)+len(rec) > b.mtu {
		return false
	}
	b.buf = append(b.buf, rec...)
	return true
}

// empty reports whether any record was accepted.
func (b *recordBuilder) empty() bool { return len(b.buf) == 0 }

// bytes renders the complete PDU: opcode, optional meta byte, then
// the accumulated records.
func (b *recordBuilder) bytes() []byte {
	out := make([]byte, 0, b.headerLen()+len(b.buf))
	out = append(out, b.opcode)
	if b.hasMeta {
		out = append(out, b.meta)
	}
	return append(out, b.buf...)
}

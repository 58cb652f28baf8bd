package gatt

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	satori "github.com/satori/go.uuid"
)

// bluetoothBaseUUID is the Bluetooth SIG base UUID,
// 0000XXXX-0000-1000-8000-00805F9B34FB, stored in canonical
// (big-endian, left-to-right) byte order. A 16-bit short-form
// UUID equals the long form with its value spliced into bytes
// [2:4].
var bluetoothBaseUUID = [16]byte{
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00,
	0x10, 0x00,
	0x80, 0x00,
	0x00, 0x80, 0x5F, 0x9B, 0x34, 0xFB,
}

// A UUID is a Bluetooth attribute or service identifier: either
// a 16-bit short form or a 128-bit long form. b is stored in
// canonical (big-endian) order, the same order used in its
// string representation; on the wire, UUIDs are little-endian,
// so codecs reverse b on the way in and out.
type UUID struct {
	b []byte
}

// UUID16 returns the short-form UUID for v.
func UUID16(v uint16) UUID {
	return UUID{b: []byte{byte(v >> 8), byte(v)}}
}

// uuidParseCache memoizes ParseUUID, since service and
// characteristic definitions tend to reuse the same handful of
// UUID strings many times over when a config file is loaded.
var uuidParseCache, _ = lru.New(256)

// ParseUUID parses s as either a 4-hex-digit short form
// ("1800") or a dashed 128-bit long form
// ("09fc95c0-c111-11e3-9904-0002a5d5c51b").
func ParseUUID(s string) (UUID, error) {
	if cached, ok := uuidParseCache.Get(s); ok {
		return cached.(UUID), nil
	}

	clean := strings.TrimSpace(s)
	if len(clean) == 4 {
		var v uint16
		if _, err := fmt.Sscanf(clean, "%04x", &v); err != nil {
			return UUID{}, fmt.Errorf("gatt: invalid short UUID %q: %w", s, err)
		}
		u := UUID16(v)
		uuidParseCache.Add(s, u)
		return u, nil
	}

	parsed, err := satori.FromString(clean)
	if err != nil {
		return UUID{}, fmt.Errorf("gatt: invalid UUID %q: %w", s, err)
	}
	u := UUID{b: append([]byte(nil), parsed.Bytes()...)}
	uuidParseCache.Add(s, u)
	return u, nil
}

// MustParseUUID is like ParseUUID but panics on error. It is
// meant for use with constant UUID strings known at compile time.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len reports the number of octets this UUID occupies on the
// wire in its declared form: 2 for short form, 16 for long form.
func (u UUID) Len() int { return len(u.b) }

// long expands u to its 128-bit canonical form.
func (u UUID) long() [16]byte {
	if len(u.b) == 16 {
		var out [16]byte
		copy(out[:], u.b)
		return out
	}
	out := bluetoothBaseUUID
	out[2], out[3] = u.b[0], u.b[1]
	return out
}

// Equal reports whether u and o identify the same attribute
// type, comparing in canonical long form so a short-form UUID
// equals its expansion under the Bluetooth base UUID.
func (u UUID) Equal(o UUID) bool {
	a, b := u.long(), o.long()
	return a == b
}

// reverse returns a new slice holding b's bytes in reverse
// order; it does not modify b.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// uuidFromWire decodes a little-endian wire UUID (2 or 16 bytes)
// into its canonical in-memory form.
func uuidFromWire(b []byte) UUID {
	return UUID{b: reverse(b)}
}

// wireBytes returns u in little-endian wire order.
func (u UUID) wireBytes() []byte {
	return reverse(u.b)
}

// String renders u in its declared form: 4 hex digits for short
// form, dashed 8-4-4-4-12 for long form.
func (u UUID) String() string {
	if len(u.b) == 2 {
		return fmt.Sprintf("%02x%02x", u.b[0], u.b[1])
	}
	long := u.long()
	return fmt.Sprintf("%x-%x-%x-%x-%x", long[0:4], long[4:6], long[6:8], long[8:10], long[10:16])
}

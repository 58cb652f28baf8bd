package gatt

import (
	"bytes"
	"testing"
)

func TestUUID16(t *testing.T) {
	want := UUID{b: []byte{0x18, 0x00}}
	if got := UUID16(0x1800); !got.Equal(want) {
		t.Errorf("UUID16(0x1800): got %v, want %v", got, want)
	}
}

func TestUUIDEqualAcrossShortAndLongForm(t *testing.T) {
	short := UUID16(0x2a37)
	long := MustParseUUID("00002a37-0000-1000-8000-00805f9b34fb")
	if !short.Equal(long) {
		t.Errorf("short form %v should equal its base-UUID expansion %v", short, long)
	}
}

func TestUUIDNotEqual(t *testing.T) {
	if UUID16(0x1800).Equal(UUID16(0x1801)) {
		t.Error("distinct short UUIDs must not be equal")
	}
}

func TestParseUUIDShortForm(t *testing.T) {
	u, err := ParseUUID("1800")
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if !u.Equal(UUID16(0x1800)) {
		t.Errorf("ParseUUID(%q): got %v want 0x1800", "1800", u)
	}
	if u.Len() != 2 {
		t.Errorf("short form Len(): got %d want 2", u.Len())
	}
}

func TestParseUUIDLongForm(t *testing.T) {
	const s = "09fc95c0-c111-11e3-9904-0002a5d5c51b"
	u, err := ParseUUID(s)
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if u.Len() != 16 {
		t.Errorf("long form Len(): got %d want 16", u.Len())
	}
	if got := u.String(); got != s {
		t.Errorf("String(): got %q want %q", got, s)
	}
}

func TestParseUUIDInvalid(t *testing.T) {
	if _, err := ParseUUID("not-a-uuid"); err == nil {
		t.Error("ParseUUID should reject a malformed UUID string")
	}
}

func TestParseUUIDIsCached(t *testing.T) {
	const s = "11fac9e0-c111-11e3-9246-0002a5d5c51b"
	a, err := ParseUUID(s)
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	b, err := ParseUUID(s)
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if !a.Equal(b) {
		t.Error("repeated ParseUUID calls for the same string must agree")
	}
}

func TestReverse(t *testing.T) {
	cases := []struct {
		fwd  []byte
		back []byte
	}{
		{fwd: []byte{0, 1}, back: []byte{1, 0}},
		{fwd: []byte{0, 1, 2}, back: []byte{2, 1, 0}},
		{fwd: []byte{0, 1, 2, 3}, back: []byte{3, 2, 1, 0}},
		{
			fwd:  []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			back: []byte{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		},
	}

	for _, tt := range cases {
		got := reverse(tt.fwd)
		if !bytes.Equal(got, tt.back) {
			t.Errorf("reverse(%x): got %x want %x", tt.fwd, got, tt.back)
		}
	}
}

func TestWireBytesRoundTrip(t *testing.T) {
	u := UUID16(0x1234)
	got := uuidFromWire(u.wireBytes())
	if !got.Equal(u) {
		t.Errorf("wireBytes/uuidFromWire round trip: got %v want %v", got, u)
	}
}

func BenchmarkReverseBytes16(b *testing.B) {
	buf := make([]byte, 2)
	for i := 0; i < b.N; i++ {
		reverse(buf)
	}
}

func BenchmarkReverseBytes128(b *testing.B) {
	buf := make([]byte, 16)
	for i := 0; i < b.N; i++ {
		reverse(buf)
	}
}

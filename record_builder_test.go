package gatt

import (
	"bytes"
	"testing"
)

func TestRecordBuilderMTUBound(t *testing.T) {
	cases := []struct {
		mtu     int
		withMeta bool
		recLen  int
		n       int
		wantN   int
	}{
		{mtu: 5, withMeta: false, recLen: 4, n: 3, wantN: 1},
		{mtu: 5, withMeta: false, recLen: 4, n: 1, wantN: 1},
		{mtu: 6, withMeta: true, recLen: 4, n: 3, wantN: 1},
		{mtu: 10, withMeta: true, recLen: 4, n: 3, wantN: 2},
	}

	for _, tt := range cases {
		b := newRecordBuilder(tt.mtu, 0x11, tt.withMeta)
		got := 0
		for i := 0; i < tt.n; i++ {
			rec := bytes.Repeat([]byte{byte(i)}, tt.recLen)
			if !b.add(rec, 0x01) {
				break
			}
			got++
		}
		if got != tt.wantN {
			t.Errorf("mtu=%d withMeta=%v recLen=%d: accepted %d records, want %d", tt.mtu, tt.withMeta, tt.recLen, got, tt.wantN)
		}
		if len(b.bytes()) > tt.mtu {
			t.Errorf("mtu=%d: built PDU of %d bytes, exceeds MTU", tt.mtu, len(b.bytes()))
		}
	}
}

func TestRecordBuilderRejectsLengthMismatch(t *testing.T) {
	b := newRecordBuilder(64, 0x09, true)
	if !b.add([]byte{1, 2, 3}, 3) {
		t.Fatal("first record should always be accepted (mtu permitting)")
	}
	if b.add([]byte{1, 2}, 2) {
		t.Fatal("record of a different length than the first must be rejected")
	}
	if b.add([]byte{1, 2, 3, 4}, 4) {
		t.Fatal("record of a different length than the first must be rejected")
	}
	if !b.add([]byte{4, 5, 6}, 3) {
		t.Fatal("record matching the fixed length must be accepted")
	}
}

func TestRecordBuilderBytes(t *testing.T) {
	b := newRecordBuilder(64, 0x11, true)
	b.add([]byte{0x01, 0x00}, 0x02)
	b.add([]byte{0x02, 0x00}, 0x02)

	want := []byte{0x11, 0x02, 0x01, 0x00, 0x02, 0x00}
	if !bytes.Equal(b.bytes(), want) {
		t.Errorf("bytes(): got %x want %x", b.bytes(), want)
	}
}

func TestRecordBuilderEmpty(t *testing.T) {
	b := newRecordBuilder(64, 0x11, true)
	if !b.empty() {
		t.Fatal("fresh builder should be empty")
	}
	b.add([]byte{0x01}, 0x01)
	if b.empty() {
		t.Fatal("builder with a record should not be empty")
	}
}

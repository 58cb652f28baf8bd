package gatt

import "testing"

func buildTestDatabase() *Database {
	db := NewDatabase("attr-test")
	svc := NewService(UUID16(0x180d))
	meas := svc.AddCharacteristic(UUID16(0x2a37))
	meas.SetValue([]byte{0x00, 0x48}).SetPermissions(Read)
	ctrl := svc.AddCharacteristic(UUID16(0x2a39))
	ctrl.SetValue([]byte{0x00}).SetPermissions(Read | Write)
	ctrl.AddDescriptor(UUID16(0x2901)).SetValue([]byte("control point")).SetPermissions(Read)
	db.AppendService(svc)
	return db
}

func TestDatabaseHandlesAreDenseFromOne(t *testing.T) {
	db := buildTestDatabase()
	for h := uint16(1); h <= uint16(db.Count()); h++ {
		if _, ok := db.At(h); !ok {
			t.Errorf("At(%d): want ok, missing attribute in dense range", h)
		}
	}
	if _, ok := db.At(0); ok {
		t.Error("At(0): handle 0 is reserved, must never resolve")
	}
	if _, ok := db.At(uint16(db.Count() + 1)); ok {
		t.Error("At(count+1): must be out of range")
	}
}

func TestAppendServiceReturnsContiguousRange(t *testing.T) {
	db := NewDatabase("range-test")
	before := db.Count()
	svc := NewService(UUID16(0x180f))
	svc.AddCharacteristic(UUID16(0x2a19)).SetValue([]byte{100}).SetPermissions(Read)
	start, end := db.AppendService(svc)
	if int(start) != before+1 {
		t.Errorf("start handle: got %d want %d", start, before+1)
	}
	if int(end) != db.Count() {
		t.Errorf("end handle: got %d want %d", end, db.Count())
	}
}

func TestSubrangeBounds(t *testing.T) {
	db := buildTestDatabase()
	n := uint16(db.Count())

	cases := []struct {
		start, end uint16
		wantLen    int
	}{
		{start: 0, end: n, wantLen: 0},
		{start: 1, end: n, wantLen: int(n)},
		{start: n, end: n, wantLen: 1},
		{start: n + 1, end: n + 10, wantLen: 0},
		{start: 5, end: 2, wantLen: 0},
	}
	for _, tt := range cases {
		got := db.subrange(tt.start, tt.end)
		if len(got) != tt.wantLen {
			t.Errorf("subrange(%d, %d): got %d attrs, want %d", tt.start, tt.end, len(got), tt.wantLen)
		}
	}
}

func TestReadByGroupTypeOrdersAscending(t *testing.T) {
	db := buildTestDatabase()
	groups := db.ReadByGroupType(1, uint16(db.Count()), true)
	if len(groups) < 3 {
		t.Fatalf("want at least 3 primary services (GAP, GATT, custom), got %d", len(groups))
	}
	for i := 1; i < len(groups); i++ {
		if groups[i].start <= groups[i-1].start {
			t.Errorf("groups must be in ascending handle order: %+v", groups)
		}
	}
}

func TestReadByTypeMatchesCanonicalUUID(t *testing.T) {
	db := buildTestDatabase()
	// 0x2A37 long form must match the short form used when the database was built.
	long := MustParseUUID("00002a37-0000-1000-8000-00805f9b34fb")
	got := db.ReadByType(1, uint16(db.Count()), long)
	if len(got) != 1 {
		t.Fatalf("ReadByType with long-form UUID: got %d matches, want 1", len(got))
	}
	if got[0].Value[1] != 0x48 {
		t.Errorf("matched wrong attribute: %+v", got[0])
	}
}

func TestFindInformationCoversWholeRange(t *testing.T) {
	db := buildTestDatabase()
	attrs := db.FindInformation(1, uint16(db.Count()))
	if len(attrs) != db.Count() {
		t.Errorf("FindInformation(1, count): got %d attrs, want %d", len(attrs), db.Count())
	}
}

func TestFindByTypeValueReportsGroupEnd(t *testing.T) {
	db := buildTestDatabase()
	found := db.FindByTypeValue(1, uint16(db.Count()), primaryServiceUUID, UUID16(0x180d).wireBytes())
	if len(found) != 1 {
		t.Fatalf("want 1 match for the custom service declaration, got %d", len(found))
	}
	if found[0].GroupEndHandle < found[0].Handle {
		t.Errorf("group end handle must be >= the match handle: %+v", found[0])
	}
}

func TestWriteUnknownHandleFails(t *testing.T) {
	db := buildTestDatabase()
	if db.Write(uint16(db.Count()+1), []byte{1}) {
		t.Error("Write to an out-of-range handle must report false")
	}
}

func TestWriteUpdatesValueInPlace(t *testing.T) {
	db := buildTestDatabase()
	// the control-point characteristic value is the 5th attribute of the custom service
	groups := db.ReadByGroupType(1, uint16(db.Count()), true)
	custom := groups[len(groups)-1]
	ctrlValueHandle := custom.start + 4 // decl, char-decl, value, char-decl, value
	if !db.Write(ctrlValueHandle, []byte{0x7f}) {
		t.Fatalf("Write(%d) should succeed", ctrlValueHandle)
	}
	attr, _ := db.At(ctrlValueHandle)
	if len(attr.Value) != 1 || attr.Value[0] != 0x7f {
		t.Errorf("value not updated: %+v", attr)
	}
}

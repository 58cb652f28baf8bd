// Package gatt implements the server side of the Bluetooth
// Attribute Protocol (ATT) and the Generic Attribute Profile
// (GATT) attribute database built on top of it.
//
// A Database holds the flat, ordered table of attributes backing
// a GATT server: services, characteristics, characteristic
// values, and descriptors, each assigned a dense handle in
// insertion order. A GATTServer answers the ATT opcodes a client
// uses to discover and access that table — Exchange-MTU,
// Read-By-Group-Type, Read-By-Type, Find-Information,
// Find-By-Type-Value, Write-Request, and Write-Command — over a
// Conn, which frames PDUs across a Socket transport.
//
// This package does not speak to real Bluetooth hardware: L2CAP,
// HCI, and BlueZ integration are out of scope. LoopbackSocket, an
// in-process channel-backed Socket, stands in for a real transport
// in tests and in the cmd/attgattd demo.
//
// USAGE
//
//	db := gatt.NewDatabase("my-device")
//	svc := gatt.NewService(gatt.MustParseUUID("180d")) // Heart Rate
//	hr := svc.AddCharacteristic(gatt.MustParseUUID("2a37"))
//	hr.SetValue([]byte{0x00, 0x48}).SetPermissions(gatt.Read)
//	db.AppendService(svc)
//
//	peer, serverSock := gatt.NewLoopbackSocketPair()
//	conn := gatt.NewConn(serverSock, 512)
//	gatt.NewGATTServer(db).Serve(conn)
//
//	for {
//		if err := conn.PollRead(); err != nil {
//			break
//		}
//		if err := conn.PollWrite(); err != nil {
//			break
//		}
//	}
//
// See cmd/attgattd for a runnable server built on a config file of
// services and characteristics.
package gatt

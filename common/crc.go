// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains helpers shared by the board packages.
package common

// CRC8 returns the 8-bit CRC of data, polynomial 0x31 with initial value
// 0xFF. The same checksum Sensirion style sensors put on the wire; the
// datalog package stamps it on every EEPROM record.
func CRC8(data []byte) byte {
	crc := byte(0xFF)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = crc<<1 ^ 0x31
			}
		}
	}
	return crc
}

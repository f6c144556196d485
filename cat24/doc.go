// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cat24 reads and writes the board's CAT24C512 64KiB EEPROM over
// I²C. Writes are chunked to the chip's 128 byte pages and the driver polls
// for the end of the internal write cycle before returning.
//
// Datasheet: https://www.onsemi.com/pdf/datasheet/cat24c512-d.pdf
package cat24

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat24

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	// Size is the capacity of the array in bytes.
	Size = 65536
	// PageSize is the largest write the chip accepts in one transaction.
	PageSize = 128

	// The datasheet gives 5ms max for the internal write cycle; leave slack.
	writeTimeout = 50 * time.Millisecond
)

// Opts holds the configuration options.
type Opts struct {
	// Addr is the I²C slave address, 0x50 plus the state of the three
	// address pins.
	Addr uint16
}

// DefaultOpts are the recommended default options.
var DefaultOpts = Opts{Addr: 0x50}

// Dev is a handle to the EEPROM.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c *i2c.Dev
}

// NewI2C returns a handle to a CAT24C512 on bus b. No bus traffic happens
// until the first read or write.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Addr < 0x50 || opts.Addr > 0x57 {
		return nil, fmt.Errorf("cat24: address %#x outside the chip's 0x50..0x57 range", opts.Addr)
	}
	return &Dev{c: &i2c.Dev{Bus: b, Addr: opts.Addr}}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("cat24.Dev{%s}", d.c)
}

// ReadByte returns the byte stored at addr.
func (d *Dev) ReadByte(addr uint16) (byte, error) {
	var buf [1]byte
	if err := d.ReadBlock(addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteByte stores b at addr and waits for the write cycle to finish.
func (d *Dev) WriteByte(addr uint16, b byte) error {
	return d.WriteBlock(addr, []byte{b})
}

// ReadBlock fills buf with the bytes starting at addr. Sequential reads
// roll over page boundaries on-chip so a single transaction suffices.
func (d *Dev) ReadBlock(addr uint16, buf []byte) error {
	if err := d.checkRange(addr, len(buf)); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	return d.c.Tx([]byte{byte(addr >> 8), byte(addr)}, buf)
}

// WriteBlock stores data starting at addr. The transfer is split at the
// chip's 128 byte page boundaries; after each page the device is polled
// until it acknowledges its address again, signalling the end of the
// internal write cycle.
func (d *Dev) WriteBlock(addr uint16, data []byte) error {
	if err := d.checkRange(addr, len(data)); err != nil {
		return err
	}
	for len(data) > 0 {
		n := PageSize - int(addr)%PageSize
		if n > len(data) {
			n = len(data)
		}
		w := make([]byte, 0, 2+n)
		w = append(w, byte(addr>>8), byte(addr))
		w = append(w, data[:n]...)
		if err := d.c.Tx(w, nil); err != nil {
			return fmt.Errorf("cat24: writing page at %#x: %w", addr, err)
		}
		if err := d.waitReady(); err != nil {
			return err
		}
		addr += uint16(n)
		data = data[n:]
	}
	return nil
}

// Erase overwrites the whole array with 0xFF. progress, if non-nil, is
// called after every page with the number of bytes done so far and Size.
func (d *Dev) Erase(progress func(done, total int)) error {
	page := make([]byte, PageSize)
	for i := range page {
		page[i] = 0xFF
	}
	for addr := 0; addr < Size; addr += PageSize {
		if err := d.WriteBlock(uint16(addr), page); err != nil {
			return err
		}
		if progress != nil {
			progress(addr+PageSize, Size)
		}
	}
	return nil
}

// waitReady ACK-polls the device until it answers its address again.
func (d *Dev) waitReady() error {
	deadline := time.Now().Add(writeTimeout)
	for {
		if err := d.c.Tx(nil, nil); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("cat24: device did not come back within %s of a write", writeTimeout)
		}
		time.Sleep(time.Millisecond)
	}
}

func (d *Dev) checkRange(addr uint16, n int) error {
	if int(addr)+n > Size {
		return fmt.Errorf("cat24: %d bytes at %#x run past the end of the %d byte array", n, addr, Size)
	}
	return nil
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package datalog keeps a small append-only log of pre-formatted lines in
// a byte-addressed store, typically the board's EEPROM. Every record is a
// fixed 32 bytes, timestamped and stamped with a CRC so torn writes are
// detected on readback.
package datalog

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/enviroboard/devices/common"
)

// Store is the persistence a Log writes to. *cat24.Dev satisfies it; the
// tests use an in-memory array.
type Store interface {
	ReadBlock(addr uint16, buf []byte) error
	WriteBlock(addr uint16, data []byte) error
}

const (
	// RecordSize is the fixed on-store footprint of one entry.
	RecordSize = 32
	// MessageSize is the longest message an entry keeps; longer ones are
	// cut.
	MessageSize = RecordSize - stampSize - 1 - 1

	stampSize = 8 // "15:04:05"
	stamp     = "15:04:05"

	// Header layout: 'D' 'L', record count big-endian, CRC8 of the first
	// four bytes. Records start at the next record boundary.
	headerSize = 5
	recordBase = RecordSize
)

var magic = [2]byte{'D', 'L'}

// Opts holds the configuration options.
type Opts struct {
	// Capacity is the most records the log holds before Append fails.
	Capacity int
	// Mirror, when set, receives every appended line followed by a
	// newline, e.g. a serial console.
	Mirror io.Writer
	// Clock stamps entries; nil means time.Now.
	Clock func() time.Time
}

// Log is an append-only record log on top of a Store.
//
// Log is not safe for concurrent use.
type Log struct {
	store  Store
	cap    int
	mirror io.Writer
	clock  func() time.Time

	count int
}

// New opens the log in store. A store without a valid header is treated as
// empty; the header is created on the first Append or Erase.
func New(store Store, opts *Opts) (*Log, error) {
	if opts == nil || opts.Capacity <= 0 {
		return nil, fmt.Errorf("datalog: a positive Capacity is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	l := &Log{store: store, cap: opts.Capacity, mirror: opts.Mirror, clock: clock}

	var hdr [headerSize]byte
	if err := store.ReadBlock(0, hdr[:]); err != nil {
		return nil, fmt.Errorf("datalog: reading header: %w", err)
	}
	if hdr[0] == magic[0] && hdr[1] == magic[1] && common.CRC8(hdr[:4]) == hdr[4] {
		l.count = int(hdr[2])<<8 | int(hdr[3])
		if l.count > l.cap {
			l.count = l.cap
		}
	}
	return l, nil
}

// Len returns the number of records currently held.
func (l *Log) Len() int {
	return l.count
}

// Append stamps line with the current time and persists it. The line is
// cut at MessageSize bytes. A full log fails without touching the store.
func (l *Log) Append(line string) error {
	if l.count >= l.cap {
		return fmt.Errorf("datalog: log is full at %d records", l.cap)
	}
	var rec [RecordSize]byte
	copy(rec[:stampSize], l.clock().Format(stamp))
	rec[stampSize] = ' '
	if len(line) > MessageSize {
		line = line[:MessageSize]
	}
	copy(rec[stampSize+1:], line)
	rec[RecordSize-1] = common.CRC8(rec[:RecordSize-1])

	addr := uint16(recordBase + l.count*RecordSize)
	if err := l.store.WriteBlock(addr, rec[:]); err != nil {
		return fmt.Errorf("datalog: writing record %d: %w", l.count, err)
	}
	l.count++
	if err := l.writeHeader(); err != nil {
		return err
	}
	if l.mirror != nil {
		fmt.Fprintf(l.mirror, "%s\n", bytes.TrimRight(rec[:RecordSize-1], "\x00"))
	}
	return nil
}

// Entries reads back every record. Records whose checksum does not match
// are skipped.
func (l *Log) Entries() ([]string, error) {
	out := make([]string, 0, l.count)
	var rec [RecordSize]byte
	for i := 0; i < l.count; i++ {
		addr := uint16(recordBase + i*RecordSize)
		if err := l.store.ReadBlock(addr, rec[:]); err != nil {
			return nil, fmt.Errorf("datalog: reading record %d: %w", i, err)
		}
		if common.CRC8(rec[:RecordSize-1]) != rec[RecordSize-1] {
			continue
		}
		out = append(out, string(bytes.TrimRight(rec[:RecordSize-1], "\x00")))
	}
	return out, nil
}

// Erase forgets all records. The record bytes themselves are left in
// place; only the header is rewritten.
func (l *Log) Erase() error {
	l.count = 0
	return l.writeHeader()
}

func (l *Log) writeHeader() error {
	hdr := [headerSize]byte{magic[0], magic[1], byte(l.count >> 8), byte(l.count)}
	hdr[4] = common.CRC8(hdr[:4])
	if err := l.store.WriteBlock(0, hdr[:]); err != nil {
		return fmt.Errorf("datalog: writing header: %w", err)
	}
	return nil
}

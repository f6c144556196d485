// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rv3028

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the fixed I²C address of the RV3028.
const DefaultAddr uint16 = 0x52

const (
	regSeconds   = 0x00
	regMinutes   = 0x01
	regHours     = 0x02
	regWeekday   = 0x03
	regDate      = 0x04
	regMonth     = 0x05
	regYear      = 0x06
	regAlarmMin  = 0x07
	regAlarmHour = 0x08
	regAlarmDay  = 0x09
	regStatus    = 0x0E
	regControl2  = 0x10
)

const (
	alarmDisable = 0x80 // AE_x bit: this alarm field does not match
	statusAF     = 0x04 // alarm flag
	ctrl2AIE     = 0x08 // alarm interrupt enable
)

// Dev is a handle to the clock chip.
//
// Dev is not safe for concurrent use, except for the alarm monitor started
// with MonitorAlarm which owns its own bus transactions; serialize
// externally if other calls run alongside a monitor.
type Dev struct {
	d *i2c.Dev

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns a handle to the clock at its fixed address.
func NewI2C(b i2c.Bus) (*Dev, error) {
	return &Dev{d: &i2c.Dev{Bus: b, Addr: DefaultAddr}}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("rv3028.Dev{%s}", d.d)
}

// Now reads the current time. The chip keeps a two digit year, mapped to
// 2000..2099, in the local timezone of the host.
func (d *Dev) Now() (time.Time, error) {
	raw := make([]byte, 7)
	if err := d.d.Tx([]byte{regSeconds}, raw); err != nil {
		return time.Time{}, err
	}
	return time.Date(
		2000+bcdToDec(raw[regYear]),
		time.Month(bcdToDec(raw[regMonth])),
		bcdToDec(raw[regDate]),
		bcdToDec(raw[regHours]),
		bcdToDec(raw[regMinutes]),
		bcdToDec(raw[regSeconds]),
		0, time.Local), nil
}

// SetTime writes t to the clock registers. Sub-second precision is lost.
func (d *Dev) SetTime(t time.Time) error {
	if t.Year() < 2000 || t.Year() > 2099 {
		return fmt.Errorf("rv3028: year %d outside the chip's 2000..2099 range", t.Year())
	}
	return d.d.Tx([]byte{
		regSeconds,
		decToBcd(t.Second()),
		decToBcd(t.Minute()),
		decToBcd(t.Hour()),
		byte(t.Weekday()),
		decToBcd(t.Day()),
		decToBcd(int(t.Month())),
		decToBcd(t.Year() - 2000),
	}, nil)
}

// SetAlarm arms a daily alarm at hour:minute. A pending alarm flag is
// cleared first.
func (d *Dev) SetAlarm(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("rv3028: invalid alarm time %02d:%02d", hour, minute)
	}
	if err := d.SilenceAlarm(); err != nil {
		return err
	}
	if err := d.d.Tx([]byte{
		regAlarmMin,
		decToBcd(minute),
		decToBcd(hour),
		alarmDisable, // don't match on the day
	}, nil); err != nil {
		return err
	}
	return d.d.Tx([]byte{regControl2, ctrl2AIE}, nil)
}

// DisarmAlarm disables alarm matching entirely.
func (d *Dev) DisarmAlarm() error {
	if err := d.d.Tx([]byte{regAlarmMin, alarmDisable, alarmDisable, alarmDisable}, nil); err != nil {
		return err
	}
	if err := d.d.Tx([]byte{regControl2, 0x00}, nil); err != nil {
		return err
	}
	return d.SilenceAlarm()
}

// AlarmTriggered reports whether the alarm flag is raised. The flag stays
// raised until SilenceAlarm clears it.
func (d *Dev) AlarmTriggered() (bool, error) {
	status := make([]byte, 1)
	if err := d.d.Tx([]byte{regStatus}, status); err != nil {
		return false, err
	}
	return status[0]&statusAF != 0, nil
}

// SilenceAlarm clears the alarm flag; the alarm stays armed for the next
// day.
func (d *Dev) SilenceAlarm() error {
	return d.d.Tx([]byte{regStatus, 0x00}, nil)
}

// MonitorAlarm polls the alarm flag every interval and delivers on the
// returned channel each time it trips, silencing it so the next match
// triggers again. Halt stops the monitor and closes the channel.
func (d *Dev) MonitorAlarm(interval time.Duration) (<-chan time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, fmt.Errorf("rv3028: an alarm monitor is already running")
	}
	d.wg.Add(1)

	fired := make(chan time.Time)
	d.stop = make(chan struct{})
	go func() {
		defer d.wg.Done()
		defer close(fired)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-d.stop:
				return
			case now := <-t.C:
				triggered, err := d.AlarmTriggered()
				if err != nil || !triggered {
					continue
				}
				if err := d.SilenceAlarm(); err != nil {
					continue
				}
				select {
				case fired <- now:
				case <-d.stop:
					return
				}
			}
		}
	}()
	return fired, nil
}

// Halt implements conn.Resource. It stops a running alarm monitor.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.wg.Wait()
	d.stop = nil
	return nil
}

func bcdToDec(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

func decToBcd(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}

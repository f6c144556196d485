// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rv3028_test

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/enviroboard/devices/rv3028"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// Open the first available I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	clock, err := rv3028.NewI2C(bus)
	if err != nil {
		log.Fatal(err)
	}
	now, err := clock.Now()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("it is %s\n", now.Format(time.RFC1123))

	// Ring at 07:30 every day.
	if err := clock.SetAlarm(7, 30); err != nil {
		log.Fatal(err)
	}
	fired, err := clock.MonitorAlarm(time.Second)
	if err != nil {
		log.Fatal(err)
	}
	defer clock.Halt()
	fmt.Printf("alarm at %s\n", <-fired)
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cat24_test

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/enviroboard/devices/cat24"
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

	eeprom, err := cat24.NewI2C(bus, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := eeprom.WriteBlock(0, []byte("hello")); err != nil {
		log.Fatal(err)
	}
	buf := make([]byte, 5)
	if err := eeprom.ReadBlock(0, buf); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", buf)
}

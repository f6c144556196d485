// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices contains the drivers for an environment monitoring add-on
// board: a 128x64 monochrome OLED with the board firmware's character
// renderer and live plotter (oled), a BME688 environmental sensor (bme688),
// an RV3028 real-time clock (rv3028), a CAT24C512 EEPROM (cat24), a ZIP
// colour LED strip (zipled), an EEPROM backed data logger (datalog) and a
// terminal emulator of the OLED panel for development (termview).
package devices

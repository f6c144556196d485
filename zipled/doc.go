// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package zipled drives the board's strip of SK6812 colour LEDs.
//
// The strip has no clock line, so the driver abuses an SPI MOSI pin: the
// bus runs at three times the LED bit rate and every LED bit is stretched
// into a three bit symbol, 110 for a one and 100 for a zero. A run of zero
// bytes at the end holds the line low long enough to latch.
//
// Datasheet: https://cdn-shop.adafruit.com/product-files/1138/SK6812+LED+datasheet+.pdf
package zipled

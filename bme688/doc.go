// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bme688 controls the board's BME688 environmental sensor over I²C.
// It measures temperature, barometric pressure, relative humidity and the
// resistance of a heated gas plate, from which an indicative air quality
// index is derived. The bme688.Dev type implements physic.SenseEnv for the
// climate values.
//
// Datasheet: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bme688-ds000.pdf
package bme688

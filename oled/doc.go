// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled drives the board's 128x64 monochrome OLED over I²C.
//
// The controller is SSD1306 class: its RAM is organized in 8 pages of 8
// pixel rows, and the driver keeps a byte for byte mirror of it so partial
// updates only push the touched bytes. On top of the pixel and shape
// primitives the package carries the board firmware's character renderer
// (5x5 font, 26 cells per line, greedy word wrap, Left/Centre/Right
// alignment) and a live auto-scaling plotter.
//
// The panel can sit at either of two bus addresses; open one Dev per
// address. Each Dev lazily probes and configures its controller on first
// use.
//
// Dev also implements display.Drawer, so images produced with the standard
// image packages (or fogleman/gg, x/image fonts, ...) can be pushed to the
// panel directly.
package oled

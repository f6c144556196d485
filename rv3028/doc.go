// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rv3028 controls the board's RV3028 real-time clock over I²C:
// getting and setting the time and date, and a daily alarm that can either
// be polled or watched with a background monitor.
//
// Datasheet: https://www.microcrystal.com/fileadmin/Media/Products/RTC/Datasheet/RV-3028-C7.pdf
package rv3028

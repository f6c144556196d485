// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bme688

import "fmt"

// WrongChipError is returned when the device at the address answers with an
// unexpected chip identity, usually a different sensor from the same family.
type WrongChipError struct {
	ID byte
}

func (e *WrongChipError) Error() string {
	return fmt.Sprintf("bme688: unexpected chip id %#x, want 0x61", e.ID)
}

// ReadTimeoutError is returned when the sensor does not finish a forced
// measurement in time.
type ReadTimeoutError struct{}

func (e *ReadTimeoutError) Error() string {
	return "bme688: measurement did not complete in time"
}

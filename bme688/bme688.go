// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bme688

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddr is the address the sensor uses with SDO pulled low; with SDO
// high it answers on 0x77.
const DefaultAddr uint16 = 0x76

const chipID = 0x61

const (
	regStatus    = 0x1D // meas_status_0, start of the data block
	regResHeat0  = 0x5A
	regGasWait0  = 0x64
	regCtrlGas1  = 0x71
	regCtrlHum   = 0x72
	regCtrlMeas  = 0x74
	regConfig    = 0x75
	regCoeff1    = 0x89
	regChipID    = 0xD0
	regSoftReset = 0xE0
	regCoeff2    = 0xE1
	regHeatRange = 0x00 // res_heat_val / res_heat_range / range_sw_err block
)

const (
	softResetCmd   = 0xB6
	modeForced     = 0x01
	runGas         = 0x20 // ctrl_gas_1 run_gas for the 688 high range
	newDataMask    = 0x80
	gasValidMask   = 0x20
	heatStableMask = 0x10

	// osrs_t x2, osrs_p x16.
	oversampling = 0x02<<5 | 0x05<<2
)

// Opts holds the configuration options for the sensor.
type Opts struct {
	// Addr is the I²C address, DefaultAddr or 0x77.
	Addr uint16
	// HeaterTemperature is the gas plate setpoint for gas measurements.
	HeaterTemperature physic.Temperature
	// HeaterDuration is how long the plate is heated before the gas
	// resistance is sampled.
	HeaterDuration time.Duration
}

// DefaultOpts matches the board firmware: 300°C for 100ms.
var DefaultOpts = Opts{
	Addr:              DefaultAddr,
	HeaterTemperature: 300*physic.Celsius + physic.ZeroCelsius,
	HeaterDuration:    100 * time.Millisecond,
}

// calibration holds the per-device compensation coefficients, read once at
// init from the two coefficient blocks.
type calibration struct {
	t1         uint16
	t2         int16
	t3         int8
	p1         uint16
	p2         int16
	p3         int8
	p4, p5     int16
	p6, p7     int8
	p8, p9     int16
	p10        uint8
	h1, h2     uint16
	h3, h4, h5 int8
	h6         uint8
	h7         int8
	gh1        int8
	gh2        int16
	gh3        int8

	resHeatRange uint8
	resHeatVal   int8
}

// Dev is a handle to an initialized BME688 sensor.
//
// Dev is not safe for concurrent use.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	cal  calibration

	// ambient is the last compensated temperature in °C, used for the
	// heater setpoint calculation. Starts at a room temperature guess.
	ambient float64

	lastGas      physic.ElectricResistance
	lastHumidity physic.RelativeHumidity

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to a BME688
// environmental sensor. The chip identity is verified, the compensation
// coefficients are read and the measurement engine is configured.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		d:       &i2c.Dev{Bus: b, Addr: opts.Addr},
		opts:    *opts,
		ambient: 21,
	}
	id := make([]byte, 1)
	if err := d.d.Tx([]byte{regChipID}, id); err != nil {
		return nil, fmt.Errorf("bme688: no sensor at %#x: %w", opts.Addr, err)
	}
	if id[0] != chipID {
		return nil, &WrongChipError{ID: id[0]}
	}
	if err := d.readCalibration(); err != nil {
		return nil, err
	}
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("bme688.Dev{%s}", d.d)
}

// SoftReset restores the power-on state; the device needs to be
// reconfigured afterwards, so a new Dev should be opened.
func (d *Dev) SoftReset() error {
	return d.d.Tx([]byte{regSoftReset, softResetCmd}, nil)
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval until Halt is called.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wg.Add(1)

	sensing := make(chan physic.Env)
	d.stop = make(chan struct{})
	go func() {
		defer d.wg.Done()
		defer close(sensing)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err == nil {
					sensing <- e
				}
			}
		}
	}()
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = physic.Pascal
	e.Humidity = 8 * physic.MilliRH
}

// Halt stops a SenseContinuous loop. The sensor itself sleeps between
// forced measurements, so there is nothing else to stop.
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

var _ physic.SenseEnv = &Dev{}

// Sense triggers one forced measurement and fills e with the compensated
// temperature, pressure and humidity. The gas resistance sampled alongside
// is retained for GasResistance and IAQ.
func (d *Dev) Sense(e *physic.Env) error {
	if err := d.d.Tx([]byte{regCtrlMeas, oversampling | modeForced}, nil); err != nil {
		return err
	}
	deadline := time.Now().Add(d.opts.HeaterDuration + 500*time.Millisecond)
	data := make([]byte, 17)
	for {
		if err := d.d.Tx([]byte{regStatus}, data); err != nil {
			return err
		}
		if data[0]&newDataMask != 0 {
			break
		}
		if time.Now().After(deadline) {
			return &ReadTimeoutError{}
		}
		time.Sleep(10 * time.Millisecond)
	}

	pRaw := uint32(data[2])<<12 | uint32(data[3])<<4 | uint32(data[4])>>4
	tRaw := uint32(data[5])<<12 | uint32(data[6])<<4 | uint32(data[7])>>4
	hRaw := uint32(data[8])<<8 | uint32(data[9])
	gRaw := uint32(data[15])<<2 | uint32(data[16])>>6
	gasRange := data[16] & 0x0F

	tempC, tFine := d.cal.temperature(tRaw)
	d.ambient = tempC
	humidity := d.cal.humidity(hRaw, tempC)
	pressure := d.cal.pressure(pRaw, tFine)

	e.Temperature = physic.Temperature(tempC*float64(physic.Celsius)) + physic.ZeroCelsius
	e.Pressure = physic.Pressure(pressure * float64(physic.Pascal))
	e.Humidity = physic.RelativeHumidity(humidity * float64(physic.PercentRH))
	d.lastHumidity = e.Humidity

	if data[16]&gasValidMask != 0 {
		d.lastGas = gasResistance(gRaw, gasRange)
	}
	return nil
}

// GasResistance returns the gas plate resistance of the last measurement.
// Lower resistance means more volatile compounds in the air.
func (d *Dev) GasResistance() physic.ElectricResistance {
	return d.lastGas
}

// IAQ reduces the last measurement to an indicative air quality index from
// 0 (excellent) to 500 (severely polluted). It is a heuristic blend of gas
// resistance and humidity, not a certified IAQ calculation.
func (d *Dev) IAQ() int {
	hum := float64(d.lastHumidity) / float64(physic.PercentRH)
	return iaqScore(float64(d.lastGas)/float64(physic.Ohm), hum)
}

// iaqScore blends a gas resistance score (75%) against a clean-air baseline
// with a humidity score (25%) against the 40%RH comfort point.
func iaqScore(gasOhm, humidity float64) int {
	const (
		gasBaseline = 50000.0
		humOptimal  = 40.0
	)
	gs := gasOhm
	if gs > gasBaseline {
		gs = gasBaseline
	}
	gasScore := gs / gasBaseline * 75
	humScore := (1 - math.Abs(humidity-humOptimal)/100) * 25
	if humScore < 0 {
		humScore = 0
	}
	return int(math.Round((100 - gasScore - humScore) * 5))
}

func (d *Dev) readCalibration() error {
	coeff := make([]byte, 41)
	if err := d.d.Tx([]byte{regCoeff1}, coeff[:25]); err != nil {
		return err
	}
	if err := d.d.Tx([]byte{regCoeff2}, coeff[25:]); err != nil {
		return err
	}
	heat := make([]byte, 5)
	if err := d.d.Tx([]byte{regHeatRange}, heat); err != nil {
		return err
	}
	u16 := func(i int) uint16 { return binary.LittleEndian.Uint16(coeff[i:]) }
	c := &d.cal
	c.t2 = int16(u16(1))
	c.t3 = int8(coeff[3])
	c.p1 = u16(5)
	c.p2 = int16(u16(7))
	c.p3 = int8(coeff[9])
	c.p4 = int16(u16(11))
	c.p5 = int16(u16(13))
	c.p7 = int8(coeff[15])
	c.p6 = int8(coeff[16])
	c.p8 = int16(u16(19))
	c.p9 = int16(u16(21))
	c.p10 = coeff[23]
	c.h2 = uint16(coeff[25])<<4 | uint16(coeff[26])>>4
	c.h1 = uint16(coeff[27])<<4 | uint16(coeff[26])&0x0F
	c.h3 = int8(coeff[28])
	c.h4 = int8(coeff[29])
	c.h5 = int8(coeff[30])
	c.h6 = coeff[31]
	c.h7 = int8(coeff[32])
	c.t1 = u16(33)
	c.gh2 = int16(u16(35))
	c.gh1 = int8(coeff[37])
	c.gh3 = int8(coeff[38])
	c.resHeatVal = int8(heat[0])
	c.resHeatRange = (heat[2] >> 4) & 0x03
	return nil
}

// configure programs oversampling, the IIR filter and the gas heater
// profile in slot 0.
func (d *Dev) configure() error {
	heaterC := (float64(d.opts.HeaterTemperature) - float64(physic.ZeroCelsius)) / float64(physic.Celsius)
	waitMs := d.opts.HeaterDuration.Milliseconds()
	if waitMs > 0xFC0 {
		waitMs = 0xFC0
	}
	for _, w := range [][]byte{
		{regCtrlHum, 0x02},  // humidity oversampling x2
		{regConfig, 0x08},   // IIR filter coefficient 3
		{regGasWait0, gasWait(waitMs)},
		{regResHeat0, d.cal.resHeat(heaterC, d.ambient)},
		{regCtrlGas1, runGas},
		{regCtrlMeas, oversampling}, // sleep mode until Sense forces a cycle
	} {
		if err := d.d.Tx(w, nil); err != nil {
			return err
		}
	}
	return nil
}

// gasWait encodes a heater wait in ms into the 2 bit multiplier + 6 bit
// value register format.
func gasWait(ms int64) byte {
	factor := byte(0)
	for ms > 0x3F && factor < 3 {
		ms /= 4
		factor++
	}
	return factor<<6 | byte(ms)
}

// resHeat converts a heater setpoint in °C into the res_heat register code.
func (c *calibration) resHeat(target, ambient float64) byte {
	var1 := float64(c.gh1)/16.0 + 49.0
	var2 := float64(c.gh2)/32768.0*0.0005 + 0.00235
	var3 := float64(c.gh3) / 1024.0
	var4 := var1 * (1.0 + var2*target)
	var5 := var4 + var3*ambient
	res := 3.4 * (var5*(4.0/(4.0+float64(c.resHeatRange)))*(1.0/(1.0+float64(c.resHeatVal)*0.002)) - 25.0)
	if res < 0 {
		res = 0
	}
	if res > 255 {
		res = 255
	}
	return byte(res)
}

// temperature returns the compensated temperature in °C and the t_fine
// intermediate shared with the pressure calculation.
func (c *calibration) temperature(raw uint32) (float64, float64) {
	adc := float64(raw)
	var1 := (adc/16384.0 - float64(c.t1)/1024.0) * float64(c.t2)
	half := adc/131072.0 - float64(c.t1)/8192.0
	var2 := half * half * float64(c.t3) * 16.0
	tFine := var1 + var2
	return tFine / 5120.0, tFine
}

func (c *calibration) pressure(raw uint32, tFine float64) float64 {
	var1 := tFine/2.0 - 64000.0
	var2 := var1 * var1 * float64(c.p6) / 131072.0
	var2 += var1 * float64(c.p5) * 2.0
	var2 = var2/4.0 + float64(c.p4)*65536.0
	var1 = (float64(c.p3)*var1*var1/16384.0 + float64(c.p2)*var1) / 524288.0
	var1 = (1.0 + var1/32768.0) * float64(c.p1)
	if var1 == 0 {
		return 0
	}
	press := 1048576.0 - float64(raw)
	press = (press - var2/4096.0) * 6250.0 / var1
	var1 = float64(c.p9) * press * press / 2147483648.0
	var2 = press * float64(c.p8) / 32768.0
	var3 := (press / 256.0) * (press / 256.0) * (press / 256.0) * (float64(c.p10) / 131072.0)
	return press + (var1+var2+var3+float64(c.p7)*128.0)/16.0
}

func (c *calibration) humidity(raw uint32, tempC float64) float64 {
	var1 := float64(raw) - (float64(c.h1)*16.0 + float64(c.h3)/2.0*tempC)
	var2 := var1 * (float64(c.h2) / 262144.0 * (1.0 + float64(c.h4)/16384.0*tempC + float64(c.h5)/1048576.0*tempC*tempC))
	var3 := float64(c.h6) / 16384.0
	var4 := float64(c.h7) / 2097152.0
	hum := var2 + (var3+var4*tempC)*var2*var2
	if hum > 100 {
		hum = 100
	} else if hum < 0 {
		hum = 0
	}
	return hum
}

// gasResistance converts the raw ADC value and range into ohms, using the
// 688 high gas range conversion.
func gasResistance(raw uint32, gasRange byte) physic.ElectricResistance {
	var1 := uint32(262144) >> gasRange
	var2 := int64(raw) - 512
	var2 *= 3
	var2 += 4096
	ohm := 1000000 * int64(var1) / var2
	return physic.ElectricResistance(ohm) * physic.Ohm
}

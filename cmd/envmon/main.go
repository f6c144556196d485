// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// envmon shows live air quality readings on the add-on board: a splash on
// the OLED, a rolling IAQ graph, a traffic light on the LED strip and a
// persistent event log in the EEPROM.
//
// With -term it runs against no hardware at all and animates a demo frame
// in the terminal instead.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/enviroboard/devices/bme688"
	"github.com/enviroboard/devices/cat24"
	"github.com/enviroboard/devices/datalog"
	"github.com/enviroboard/devices/oled"
	"github.com/enviroboard/devices/rv3028"
	"github.com/enviroboard/devices/termview"
	"github.com/enviroboard/devices/zipled"
)

var (
	i2cName  = flag.String("bus", "", "I²C bus (empty for the first one)")
	spiName  = flag.String("spi", "", "SPI port for the LED strip (empty for the first one)")
	screen   = flag.Int("screen", 1, "display select: 1 for the primary address, 2 for the secondary")
	interval = flag.Duration("interval", 2*time.Second, "time between readings")
	term     = flag.Bool("term", false, "render a hardware-free demo in the terminal")
	noLEDs   = flag.Bool("no-leds", false, "skip the LED strip")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if _, err := host.Init(); err != nil {
		return err
	}
	if *term {
		return runTerm()
	}

	bus, err := i2creg.Open(*i2cName)
	if err != nil {
		return fmt.Errorf("opening I²C: %w", err)
	}
	defer bus.Close()

	opts := oled.DefaultOpts
	switch *screen {
	case 1:
		opts.Addr = oled.Addr
	case 2:
		opts.Addr = oled.AddrAlt
	default:
		return fmt.Errorf("-screen must be 1 or 2, not %d", *screen)
	}
	disp, err := oled.NewI2C(bus, &opts)
	if err != nil {
		return err
	}
	if err := disp.Init(); err != nil {
		return err
	}
	defer disp.Halt()

	if err := splash(disp, "enviroboard"); err != nil {
		return err
	}

	sensor, err := bme688.NewI2C(bus, nil)
	if err != nil {
		return err
	}
	clock, err := rv3028.NewI2C(bus)
	if err != nil {
		return err
	}
	eeprom, err := cat24.NewI2C(bus, nil)
	if err != nil {
		return err
	}
	events, err := datalog.New(eeprom, &datalog.Opts{
		Capacity: (cat24.Size - datalog.RecordSize) / datalog.RecordSize,
		Mirror:   os.Stdout,
	})
	if err != nil {
		return err
	}

	var strip *zipled.Dev
	if !*noLEDs {
		port, err := spireg.Open(*spiName)
		if err != nil {
			return fmt.Errorf("opening SPI: %w", err)
		}
		defer port.Close()
		if strip, err = zipled.NewSPI(port, nil); err != nil {
			return err
		}
		if err := strip.Brightness(0.2); err != nil {
			return err
		}
		defer strip.Halt()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	tick := time.NewTicker(*interval)
	defer tick.Stop()

	time.Sleep(2 * time.Second)
	if err := disp.Clear(); err != nil {
		return err
	}

	alerting := false
	for {
		select {
		case <-stop:
			return nil
		case <-tick.C:
		}

		env := physic.Env{}
		if err := sensor.Sense(&env); err != nil {
			disp.Show("sensor not responding", 1, oled.Left)
			continue
		}
		iaq := sensor.IAQ()

		now := "--:--"
		if t, err := clock.Now(); err == nil {
			now = t.Format("15:04")
		}
		disp.Show(now, 1, oled.Right)
		disp.Show(fmt.Sprintf("%.1fC %.0f%%", celsius(env.Temperature), humidity(env.Humidity)), 2, oled.Left)
		disp.Show(fmt.Sprintf("IAQ %d", iaq), 3, oled.Centre)
		if err := disp.Plot(float64(iaq)); err != nil {
			return err
		}

		if strip != nil {
			r, g := byte(0), byte(255)
			if iaq > 150 {
				r, g = 255, 0
			} else if iaq > 75 {
				r, g = 255, 128
			}
			for i := 0; i < zipled.DefaultOpts.NumPixels; i++ {
				strip.SetPixel(i, r, g, 0)
			}
			if err := strip.Show(); err != nil {
				return err
			}
		}

		if bad := iaq > 150; bad != alerting {
			alerting = bad
			msg := fmt.Sprintf("iaq back to %d", iaq)
			if bad {
				msg = fmt.Sprintf("iaq alert %d", iaq)
			}
			if err := events.Append(msg); err != nil {
				log.Printf("event log: %v", err)
			}
		}
	}
}

func celsius(t physic.Temperature) float64 {
	return float64(t-physic.ZeroCelsius) / float64(physic.Celsius)
}

func humidity(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}

// splash paints a banner with a proportional font and pushes it through
// the display.Drawer surface.
func splash(disp *oled.Dev, text string) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	b := disp.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 16}))
	tw, th := dc.MeasureString(text)
	dc.DrawString(text, (float64(b.Dx())-tw)/2, (float64(b.Dy())+th)/2)
	dc.DrawRoundedRectangle(4, 4, float64(b.Dx())-8, float64(b.Dy())-8, 6)
	dc.Stroke()

	img := image1bit.NewVerticalLSB(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.SetBit(x, y, image1bit.BitModel.Convert(dc.Image().At(x, y)).(image1bit.Bit))
		}
	}
	return disp.Draw(b, img, image.Point{})
}

// runTerm animates a sine sweep in a terminal emulation of the panel.
func runTerm() error {
	view := termview.New(nil)
	defer view.Halt()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	b := view.Bounds()
	phase := 0.0
	for {
		select {
		case <-stop:
			return nil
		case <-tick.C:
		}
		img := image1bit.NewVerticalLSB(b)
		for x := 0; x < b.Dx(); x++ {
			y := int(float64(b.Dy()/2) * (1 - math.Sin(phase+float64(x)/10)))
			if y >= b.Dy() {
				y = b.Dy() - 1
			}
			img.SetBit(x, y, image1bit.On)
		}
		phase += 0.2
		if err := view.Draw(b, img, image.Point{}); err != nil {
			return err
		}
	}
}

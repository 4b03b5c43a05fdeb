// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
)

// MPU6050 is a handle to the sensor on an I2C bus. It owns the bus for
// the process lifetime; Close releases it. All access is from the
// single polling goroutine, so no locking is needed.
type MPU6050 struct {
	bus  i2c.BusCloser
	dev  i2c.Dev
	gyro imu.GyroRange
	acc  imu.AccelRange
}

// NewMPU6050 opens /dev/i2c-<busNumber>, verifies the device identity,
// wakes it out of sleep mode and programs the full-scale ranges.
func NewMPU6050(busNumber int, addr uint16, gyro imu.GyroRange, acc imu.AccelRange) (*MPU6050, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	name := fmt.Sprintf("/dev/i2c-%d", busNumber)
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %s: %w", name, err)
	}

	m, err := newMPU6050(bus, addr, gyro, acc)
	if err != nil {
		bus.Close()
		return nil, err
	}

	log.Printf("MPU6050: ready on %s addr 0x%02X (gyro ±%d°/s, accel ±%dg)",
		name, addr, int(gyro), int(acc))
	return m, nil
}

// newMPU6050 runs the one-time init sequence on an already open bus.
// Split out so tests can drive it with a playback bus.
func newMPU6050(bus i2c.BusCloser, addr uint16, gyro imu.GyroRange, acc imu.AccelRange) (*MPU6050, error) {
	m := &MPU6050{
		bus:  bus,
		dev:  i2c.Dev{Bus: bus, Addr: addr},
		gyro: gyro,
		acc:  acc,
	}

	id, err := m.readReg(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("WHO_AM_I read: %w", err)
	}
	if id != whoAmIValue {
		return nil, fmt.Errorf("unexpected WHO_AM_I 0x%02X (want 0x%02X), no MPU6050 at 0x%02X", id, whoAmIValue, addr)
	}

	// The device powers up in sleep mode; clearing PWR_MGMT_1 starts
	// sampling with the internal 8MHz oscillator.
	if err := m.writeReg(regPwrMgmt1, 0x00); err != nil {
		return nil, fmt.Errorf("PWR_MGMT_1 wake: %w", err)
	}

	gyroCode, err := gyro.Code()
	if err != nil {
		return nil, err
	}
	if err := m.updateReg(regGyroConfig, gyroCode<<fsSelShift); err != nil {
		return nil, fmt.Errorf("GYRO_CONFIG: %w", err)
	}

	accCode, err := acc.Code()
	if err != nil {
		return nil, err
	}
	if err := m.updateReg(regAccelConfig, accCode<<fsSelShift); err != nil {
		return nil, fmt.Errorf("ACCEL_CONFIG: %w", err)
	}

	return m, nil
}

// ReadRaw burst-reads the 14 contiguous data registers starting at
// ACCEL_XOUT_H: accel X/Y/Z, temperature, gyro X/Y/Z, high byte first.
// A failed transaction spoils this cycle only; the device needs no
// recovery action and the next read starts clean.
func (m *MPU6050) ReadRaw() (imu.RawSample, error) {
	var buf [14]byte
	if err := m.dev.Tx([]byte{regAccelXOutH}, buf[:]); err != nil {
		return imu.RawSample{}, fmt.Errorf("MPU6050 data read: %w", err)
	}

	return imu.RawSample{
		Ax:   imu.DecodeWord(buf[0], buf[1]),
		Ay:   imu.DecodeWord(buf[2], buf[3]),
		Az:   imu.DecodeWord(buf[4], buf[5]),
		Temp: imu.DecodeWord(buf[6], buf[7]),
		Gx:   imu.DecodeWord(buf[8], buf[9]),
		Gy:   imu.DecodeWord(buf[10], buf[11]),
		Gz:   imu.DecodeWord(buf[12], buf[13]),
	}, nil
}

// Close releases the bus handle.
func (m *MPU6050) Close() error {
	return m.bus.Close()
}

func (m *MPU6050) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := m.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (m *MPU6050) writeReg(reg, val byte) error {
	return m.dev.Tx([]byte{reg, val}, nil)
}

// updateReg rewrites the FS_SEL field of a config register, leaving the
// self-test bits untouched.
func (m *MPU6050) updateReg(reg, fsBits byte) error {
	cur, err := m.readReg(reg)
	if err != nil {
		return err
	}
	return m.writeReg(reg, cur&^fsSelMask|fsBits)
}

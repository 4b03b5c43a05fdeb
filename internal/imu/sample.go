package imu

import "fmt"

// RawSample holds the register counts of one poll cycle: accelerometer,
// gyroscope and die temperature, each a signed 16-bit word.
type RawSample struct {
	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`

	Temp int16 `json:"temp"`
}

// ScaledSample is a RawSample converted to physical units using the
// configured full-scale ranges.
type ScaledSample struct {
	Ax float64 `json:"ax_g"` // g
	Ay float64 `json:"ay_g"`
	Az float64 `json:"az_g"`

	Gx float64 `json:"gx_dps"` // °/s
	Gy float64 `json:"gy_dps"`
	Gz float64 `json:"gz_dps"`

	TempC float64 `json:"temp_c"` // °C
}

// RawSource is anything that can produce raw samples over time:
// the I2C device, or a synthetic source for bench runs.
type RawSource interface {
	ReadRaw() (RawSample, error)
}

// DecodeWord combines the high/low register bytes of one axis into a
// signed 16-bit count (two's complement).
func DecodeWord(high, low byte) int16 {
	return int16(uint16(high)<<8 | uint16(low))
}

// GyroRange is a gyroscope full-scale range in °/s. Valid values are
// 250, 500, 1000 and 2000 (GYRO_FS_SEL 0-3).
type GyroRange int

// AccelRange is an accelerometer full-scale range in g. Valid values
// are 2, 4, 8 and 16 (ACCEL_FS_SEL 0-3).
type AccelRange int

// Sensitivity returns the divisor in LSB per °/s for the range
// (datasheet section 6.1).
func (r GyroRange) Sensitivity() (float64, error) {
	switch r {
	case 250:
		return 131.0, nil
	case 500:
		return 65.5, nil
	case 1000:
		return 32.8, nil
	case 2000:
		return 16.4, nil
	default:
		return 0, fmt.Errorf("unsupported gyro range ±%d°/s (valid: 250, 500, 1000, 2000)", int(r))
	}
}

// Code returns the GYRO_FS_SEL register field value for the range.
func (r GyroRange) Code() (byte, error) {
	switch r {
	case 250:
		return 0, nil
	case 500:
		return 1, nil
	case 1000:
		return 2, nil
	case 2000:
		return 3, nil
	default:
		return 0, fmt.Errorf("unsupported gyro range ±%d°/s (valid: 250, 500, 1000, 2000)", int(r))
	}
}

// Sensitivity returns the divisor in LSB per g for the range
// (datasheet section 6.2).
func (r AccelRange) Sensitivity() (float64, error) {
	switch r {
	case 2:
		return 16384.0, nil
	case 4:
		return 8192.0, nil
	case 8:
		return 4096.0, nil
	case 16:
		return 2048.0, nil
	default:
		return 0, fmt.Errorf("unsupported accel range ±%dg (valid: 2, 4, 8, 16)", int(r))
	}
}

// Code returns the ACCEL_FS_SEL register field value for the range.
func (r AccelRange) Code() (byte, error) {
	switch r {
	case 2:
		return 0, nil
	case 4:
		return 1, nil
	case 8:
		return 2, nil
	case 16:
		return 3, nil
	default:
		return 0, fmt.Errorf("unsupported accel range ±%dg (valid: 2, 4, 8, 16)", int(r))
	}
}

// ConvertTemp converts a raw die temperature count to °C
// (datasheet section 6.4).
func ConvertTemp(raw int16) float64 {
	return float64(raw)/340.0 + 36.53
}

// Scale converts the raw counts to physical units for the given ranges.
// The divisors must match the ranges programmed into the sensor's
// config registers, or the magnitudes come out silently wrong; the
// config layer validates both against the same enumeration at startup.
func (s RawSample) Scale(gr GyroRange, ar AccelRange) (ScaledSample, error) {
	gyroDiv, err := gr.Sensitivity()
	if err != nil {
		return ScaledSample{}, err
	}
	accelDiv, err := ar.Sensitivity()
	if err != nil {
		return ScaledSample{}, err
	}

	return ScaledSample{
		Ax:    float64(s.Ax) / accelDiv,
		Ay:    float64(s.Ay) / accelDiv,
		Az:    float64(s.Az) / accelDiv,
		Gx:    float64(s.Gx) / gyroDiv,
		Gy:    float64(s.Gy) / gyroDiv,
		Gz:    float64(s.Gz) / gyroDiv,
		TempC: ConvertTemp(s.Temp),
	}, nil
}

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a sensor source that generates smooth changing
// raw counts, for running the producer without hardware. The values sit
// in plausible resting-device territory: ~1g on Z at ±2g scale, gentle
// wobble on the other axes.
func NewMockSource() imu.RawSource {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) ReadRaw() (imu.RawSample, error) {
	elapsed := time.Since(m.start).Seconds()

	return imu.RawSample{
		Ax:   int16(2000 * math.Sin(elapsed)),
		Ay:   int16(1500 * math.Cos(elapsed*0.7)),
		Az:   16384,
		Gx:   int16(400 * math.Sin(elapsed*1.3)),
		Gy:   int16(300 * math.Cos(elapsed*0.9)),
		Gz:   int16(200 * math.Sin(elapsed*0.5)),
		Temp: 1200, // ~40°C
	}, nil
}

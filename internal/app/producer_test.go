package app

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/relabs-tech/mpu6050_bridge/internal/bridge"
	"github.com/relabs-tech/mpu6050_bridge/internal/config"
	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
)

// fakeSource returns a scripted sequence of samples and errors.
type fakeSource struct {
	script []func() (imu.RawSample, error)
	calls  int
}

func (f *fakeSource) ReadRaw() (imu.RawSample, error) {
	i := f.calls
	f.calls++
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	return f.script[i]()
}

type published struct {
	id    string
	topic string
	msg   any
}

// fakeSink records publishes and optionally fails on demand.
type fakeSink struct {
	sent []published
	fail error
}

func (f *fakeSink) Publish(id, topic string, msg any) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, published{id: id, topic: topic, msg: msg})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		GyroRange:  250,
		AccelRange: 2,
		TopicAccel: "/MPU6050/Accel",
		TopicGyro:  "/MPU6050/Gyro",
		TopicTemp:  "/MPU6050/Temp",
	}
}

func sampleOK(s imu.RawSample) func() (imu.RawSample, error) {
	return func() (imu.RawSample, error) { return s, nil }
}

func sampleErr(err error) func() (imu.RawSample, error) {
	return func() (imu.RawSample, error) { return imu.RawSample{}, err }
}

func TestTickPublishesScaledValues(t *testing.T) {
	src := &fakeSource{script: []func() (imu.RawSample, error){
		sampleOK(imu.RawSample{Ax: 16384, Gx: 256, Temp: 340}),
	}}
	sink := &fakeSink{}
	p := &producer{src: src, sink: sink, cfg: testConfig()}

	if err := p.tick(time.Now()); err != nil {
		t.Fatalf("tick error: %v", err)
	}

	if len(sink.sent) != 3 {
		t.Fatalf("published %d messages, want 3", len(sink.sent))
	}

	accel := sink.sent[0]
	if accel.topic != "/MPU6050/Accel" {
		t.Errorf("first publish on %q, want accel topic", accel.topic)
	}
	av, ok := accel.msg.(bridge.Vector3)
	if !ok {
		t.Fatalf("accel msg is %T, want bridge.Vector3", accel.msg)
	}
	if math.Abs(av.X-1.0) > 1e-9 {
		t.Errorf("accel X = %v, want 1.0 g", av.X)
	}

	gyro := sink.sent[1]
	gv, ok := gyro.msg.(bridge.Vector3)
	if !ok {
		t.Fatalf("gyro msg is %T, want bridge.Vector3", gyro.msg)
	}
	// 256 counts at ±250°/s → 256/131 ≈ 1.954 °/s
	if math.Abs(gv.X-256.0/131.0) > 1e-9 {
		t.Errorf("gyro X = %v, want %v", gv.X, 256.0/131.0)
	}

	temp := sink.sent[2]
	tv, ok := temp.msg.(bridge.Temperature)
	if !ok {
		t.Fatalf("temp msg is %T, want bridge.Temperature", temp.msg)
	}
	if math.Abs(tv.Temperature-37.53) > 1e-9 {
		t.Errorf("temperature = %v, want 37.53", tv.Temperature)
	}
}

func TestTickBusErrorIsolatedToCycle(t *testing.T) {
	busErr := errors.New("i2c: no ack")
	src := &fakeSource{script: []func() (imu.RawSample, error){
		sampleErr(busErr),
		sampleOK(imu.RawSample{Az: 16384}),
	}}
	sink := &fakeSink{}
	p := &producer{src: src, sink: sink, cfg: testConfig()}

	if err := p.tick(time.Now()); !errors.Is(err, busErr) {
		t.Fatalf("first tick error = %v, want wrapped bus error", err)
	}
	if len(sink.sent) != 0 {
		t.Fatalf("failed cycle still published %d messages", len(sink.sent))
	}

	// Next cycle proceeds normally.
	if err := p.tick(time.Now()); err != nil {
		t.Fatalf("second tick error: %v", err)
	}
	if len(sink.sent) != 3 {
		t.Errorf("second cycle published %d messages, want 3", len(sink.sent))
	}
	if p.seq != 1 {
		t.Errorf("seq = %d after one good cycle, want 1", p.seq)
	}
}

func TestTickPublishErrorDoesNotStick(t *testing.T) {
	src := &fakeSource{script: []func() (imu.RawSample, error){
		sampleOK(imu.RawSample{Az: 16384}),
	}}
	sink := &fakeSink{fail: errors.New("bridge connection dropped")}
	p := &producer{src: src, sink: sink, cfg: testConfig()}

	if err := p.tick(time.Now()); err == nil {
		t.Fatal("tick with failing sink did not return an error")
	}

	sink.fail = nil
	if err := p.tick(time.Now()); err != nil {
		t.Fatalf("tick after sink recovery: %v", err)
	}
	if len(sink.sent) != 3 {
		t.Errorf("recovered cycle published %d messages, want 3", len(sink.sent))
	}
}

func TestTickSequenceIncreases(t *testing.T) {
	src := &fakeSource{script: []func() (imu.RawSample, error){
		sampleOK(imu.RawSample{Az: 16384}),
	}}
	sink := &fakeSink{}
	p := &producer{src: src, sink: sink, cfg: testConfig()}

	for i := 0; i < 5; i++ {
		if err := p.tick(time.Now()); err != nil {
			t.Fatalf("tick %d error: %v", i, err)
		}
	}
	if p.seq != 5 {
		t.Errorf("seq = %d after 5 cycles, want 5", p.seq)
	}
}

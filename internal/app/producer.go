package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mpu6050_bridge/internal/bridge"
	"github.com/relabs-tech/mpu6050_bridge/internal/config"
	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
	"github.com/relabs-tech/mpu6050_bridge/internal/orientation"
	"github.com/relabs-tech/mpu6050_bridge/internal/sensors"
)

// Sink is the publish side of the rosbridge connection, abstracted so
// the poll cycle can be tested without a websocket.
type Sink interface {
	Publish(id, topic string, msg any) error
}

// mirrorSample is the JSON payload published on the MQTT mirror topic.
type mirrorSample struct {
	Seq  uint64 `json:"seq"`
	Time string `json:"time"`
	imu.ScaledSample
}

type producer struct {
	src    imu.RawSource
	sink   Sink
	mirror mqtt.Client // nil when no MQTT broker is configured
	cfg    *config.Config
	debug  bool
	seq    uint64
}

// tick runs one poll cycle: read, scale, publish. An error spoils this
// cycle only; the caller logs it and waits for the next tick.
func (p *producer) tick(t time.Time) error {
	raw, err := p.src.ReadRaw()
	if err != nil {
		return fmt.Errorf("sensor read: %w", err)
	}

	scaled, err := raw.Scale(p.cfg.GyroRange, p.cfg.AccelRange)
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	p.seq++

	if err := p.sink.Publish("MPU_accel", p.cfg.TopicAccel,
		bridge.Vector3{X: scaled.Ax, Y: scaled.Ay, Z: scaled.Az}); err != nil {
		return err
	}
	if err := p.sink.Publish("MPU_gyro", p.cfg.TopicGyro,
		bridge.Vector3{X: scaled.Gx, Y: scaled.Gy, Z: scaled.Gz}); err != nil {
		return err
	}
	if err := p.sink.Publish("MPU_temp", p.cfg.TopicTemp,
		bridge.Temperature{Temperature: scaled.TempC}); err != nil {
		return err
	}

	p.publishMirror(t, scaled)

	if p.debug {
		pose := orientation.ComputePoseFromAccel(scaled.Ax, scaled.Ay, scaled.Az)
		log.Printf("seq=%d raw ax=%6d ay=%6d az=%6d gx=%6d gy=%6d gz=%6d | scaled a=%.3f/%.3f/%.3fg g=%.2f/%.2f/%.2f°/s t=%.2f°C | roll=%.2f pitch=%.2f",
			p.seq,
			raw.Ax, raw.Ay, raw.Az, raw.Gx, raw.Gy, raw.Gz,
			scaled.Ax, scaled.Ay, scaled.Az,
			scaled.Gx, scaled.Gy, scaled.Gz,
			scaled.TempC,
			pose.Roll, pose.Pitch,
		)
	}
	return nil
}

// publishMirror pushes the scaled sample and tilt pose to the MQTT
// mirror topics. Mirror failures are logged and never spoil the cycle;
// the rosbridge sink is the contract, the mirror is best effort.
func (p *producer) publishMirror(t time.Time, scaled imu.ScaledSample) {
	if p.mirror == nil {
		return
	}

	sample := mirrorSample{
		Seq:          p.seq,
		Time:         t.Format(time.RFC3339Nano),
		ScaledSample: scaled,
	}
	if payload, err := json.Marshal(sample); err != nil {
		log.Printf("mirror marshal error: %v", err)
	} else if token := p.mirror.Publish(p.cfg.TopicIMUMirror, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("MQTT publish error (%s): %v", p.cfg.TopicIMUMirror, token.Error())
	}

	pose := orientation.ComputePoseFromAccel(scaled.Ax, scaled.Ay, scaled.Az)
	if payload, err := json.Marshal(pose); err != nil {
		log.Printf("pose marshal error: %v", err)
	} else if token := p.mirror.Publish(p.cfg.TopicPoseMirror, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("MQTT publish error (%s): %v", p.cfg.TopicPoseMirror, token.Error())
	}
}

// RunProducer wires the sensor (or the mock source) to the rosbridge
// sink and drives the poll loop until the process is terminated.
// Everything that fails in here is a startup error; per-cycle errors
// are handled inside the loop.
func RunProducer(useMock, debug bool) error {
	cfg := config.Get()

	var src imu.RawSource
	if useMock {
		log.Println("using mock sensor source")
		src = sensors.NewMockSource()
	} else {
		dev, err := sensors.NewMPU6050(cfg.I2CBus, cfg.I2CAddress, cfg.GyroRange, cfg.AccelRange)
		if err != nil {
			return fmt.Errorf("MPU6050 init: %w", err)
		}
		defer dev.Close()
		src = dev
	}

	client, err := bridge.Dial(cfg.BridgeURL)
	if err != nil {
		return err
	}
	defer client.Close()
	log.Printf("connected to rosbridge at %s", cfg.BridgeURL)

	if err := client.Advertise("IMU_WS_AC", cfg.TopicAccel, "geometry_msgs/Vector3"); err != nil {
		return err
	}
	if err := client.Advertise("IMU_WS_GY", cfg.TopicGyro, "geometry_msgs/Vector3"); err != nil {
		return err
	}
	if err := client.Advertise("IMU_WS_TP", cfg.TopicTemp, "sensor_msgs/Temperature"); err != nil {
		return err
	}

	var mirror mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().
			AddBroker(cfg.MQTTBroker).
			SetClientID(cfg.MQTTClientIDProducer)

		mirror = mqtt.NewClient(opts)
		if token := mirror.Connect(); token.Wait() && token.Error() != nil {
			return fmt.Errorf("MQTT connect: %w", token.Error())
		}
		defer mirror.Disconnect(250)
		log.Printf("MQTT mirror connected to %s", cfg.MQTTBroker)
	}

	p := &producer{src: src, sink: client, mirror: mirror, cfg: cfg, debug: debug}

	log.Printf("publishing every %dms on %s, %s, %s",
		cfg.PollPeriodMS, cfg.TopicAccel, cfg.TopicGyro, cfg.TopicTemp)

	ticker := time.NewTicker(time.Duration(cfg.PollPeriodMS) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		if err := p.tick(t); err != nil {
			log.Printf("cycle skipped: %v", err)
		}
	}
	return nil
}

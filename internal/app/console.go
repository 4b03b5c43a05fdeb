package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/mpu6050_bridge/internal/config"
	"github.com/relabs-tech/mpu6050_bridge/internal/imu"
	"github.com/relabs-tech/mpu6050_bridge/internal/orientation"
)

// RunConsole subscribes to the producer's MQTT mirror topics and
// pretty-prints readings until interrupted.
func RunConsole() error {
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER must be set to use the console")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	imuToken := client.Subscribe(cfg.TopicIMUMirror, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s struct {
			Seq uint64 `json:"seq"`
			imu.ScaledSample
		}
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: imu unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[IMU ] seq=%-6d a=%7.3f %7.3f %7.3f g  ω=%8.2f %8.2f %8.2f °/s  t=%5.2f °C\n",
			s.Seq, s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz, s.TempC,
		)
	})
	imuToken.Wait()
	if imuToken.Error() != nil {
		return imuToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMUMirror)

	poseToken := client.Subscribe(cfg.TopicPoseMirror, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE] ROLL=%6.2f  PITCH=%6.2f\n",
			p.Roll, p.Pitch,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPoseMirror)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	client.Disconnect(250)
	return nil
}

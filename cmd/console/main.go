package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/mpu6050_bridge/internal/app"
	"github.com/relabs-tech/mpu6050_bridge/internal/config"
)

func main() {
	configPath := flag.String("config", "./mpu6050_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting MPU6050 console (MQTT mirror → stdout)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/mpu6050_bridge/internal/app"
	"github.com/relabs-tech/mpu6050_bridge/internal/config"
)

func main() {
	configPath := flag.String("config", "./mpu6050_config.txt", "path to configuration file")
	useMock := flag.Bool("mock", false, "use a synthetic sensor source instead of the I2C device")
	debug := flag.Bool("debug", false, "log raw and scaled values every cycle")
	flag.Parse()

	log.Println("starting MPU6050 producer (I2C → rosbridge)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunProducer(*useMock, *debug); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

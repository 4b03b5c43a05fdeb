// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// MPU6050 register map (RM-MPU-60xxA rev 4). Only the registers this
// producer touches.
const (
	regSmplrtDiv   = 0x19 // SMPLRT_DIV: sample rate divider
	regConfig      = 0x1A // CONFIG: DLPF / FSYNC
	regGyroConfig  = 0x1B // GYRO_CONFIG: FS_SEL in bits 4:3
	regAccelConfig = 0x1C // ACCEL_CONFIG: AFS_SEL in bits 4:3

	regAccelXOutH = 0x3B // start of the 14-byte burst: accel, temp, gyro
	regTempOutH   = 0x41
	regGyroXOutH  = 0x43

	regPwrMgmt1 = 0x6B // PWR_MGMT_1: device wakes with SLEEP cleared
	regPwrMgmt2 = 0x6C
	regWhoAmI   = 0x75

	whoAmIValue = 0x68

	// GYRO_FS_SEL and ACCEL_FS_SEL both occupy bits 4:3 of their
	// config registers.
	fsSelShift = 3
	fsSelMask  = 0x3 << fsSelShift
)

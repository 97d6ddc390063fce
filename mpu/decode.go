package mpu

// Sample is one accel+gyro reading taken from the FIFO. Values are raw sensor
// counts. AccZ is negated relative to the device frame, so a raw -32768 is
// reported as 32768.
type Sample struct {
	AccX  int `yaml:"acc_x"`
	AccY  int `yaml:"acc_y"`
	AccZ  int `yaml:"acc_z"`
	GyroX int `yaml:"gyro_x"`
	GyroY int `yaml:"gyro_y"`
	GyroZ int `yaml:"gyro_z"`
}

// Combine joins a big-endian byte pair into a two's-complement value.
func Combine(high, low byte) int16 {
	return int16(uint16(high)<<8 | uint16(low))
}

// Decode interprets a FIFO block as accel x, y, z followed by gyro x, y, z.
// Bytes 6-11 are gyro data because the temperature sensor is kept out of the
// FIFO enable mask.
func Decode(block [BlockSize]byte) Sample {
	return Sample{
		AccX:  int(Combine(block[0], block[1])),
		AccY:  int(Combine(block[2], block[3])),
		AccZ:  -int(Combine(block[4], block[5])),
		GyroX: int(Combine(block[6], block[7])),
		GyroY: int(Combine(block[8], block[9])),
		GyroZ: int(Combine(block[10], block[11])),
	}
}

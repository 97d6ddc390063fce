package mpu

// Register map of the MPU6050/MPU6500 family, limited to what the FIFO
// poller touches.
const (
	regSampleRateDiv = 0x19 // SMPLRT_DIV
	regConfig        = 0x1A // CONFIG: FIFO_MODE[6], EXT_SYNC_SET[5:3], DLPF_CFG[2:0]
	regGyroConfig    = 0x1B // GYRO_CONFIG: FS_SEL[4:3]
	regAccelConfig   = 0x1D // ACCEL_CONFIG2: ACCEL_FCHOICE_B[3], A_DLPF_CFG[2:0]
	regAccelFilter   = 0x1E // LP_ACCEL_ODR
	regFIFOEnable    = 0x23 // FIFO_EN: TEMP[7] XG[6] YG[5] ZG[4] ACCEL[3]
	regTempOutH      = 0x41
	regTempOutL      = 0x42
	regUserCtrl      = 0x6A // USER_CTRL: DMP_EN[7] FIFO_EN[6] I2C_MST_EN[5] FIFO_RST[2]
	regFIFOCountH    = 0x72
	regFIFOCountL    = 0x73
	regFIFORW        = 0x74
	regWhoAmI        = 0x75
)

// DefaultAddress is the device address with AD0 pulled low.
const DefaultAddress = 0x68

// AlternativeAddress is the device address with AD0 pulled high.
const AlternativeAddress = 0x69

// BlockSize is the number of FIFO bytes holding one accel+gyro sample.
const BlockSize = 12

// FIFO enable bits
const (
	FIFOTemp  = 0b10000000
	FIFOGyroX = 0b01000000
	FIFOGyroY = 0b00100000
	FIFOGyroZ = 0b00010000
	FIFOAccel = 0b00001000
)

const (
	temperatureSensitivity = 321
	temperatureOffset      = 21
)

var knownDevices = map[byte]string{
	0x34: "MPU6050",
	0x38: "MPU6500/MPU9250",
	0x39: "MPU9255",
}

// KnownDevice names the part for an id returned by DeviceID.
func KnownDevice(id byte) (string, bool) {
	name, ok := knownDevices[id]
	return name, ok
}

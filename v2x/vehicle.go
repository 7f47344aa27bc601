package v2x

import "math"

// Sentinels for fields a station may report as unavailable. They are kept
// out of the valid numeric range so they can never be read as zero.
const (
	HeadingUnavailable                  = 3601.0
	SpeedUnavailable                    = math.MaxFloat64
	LongitudinalAccelerationUnavailable = math.MaxFloat64
	CurvatureUnavailable                = math.MaxFloat64
	YawRateUnavailable                  = math.MaxFloat64
)

// DriveDirection of a vehicle as reported in the CAM high frequency container.
type DriveDirection int

const (
	DriveDirectionForward     DriveDirection = 0
	DriveDirectionBackward    DriveDirection = 1
	DriveDirectionUnavailable DriveDirection = 2
)

// VehicleRecord is one entry of the vehicle store. The same record type
// carries self-reported stations and objects perceived by other stations.
type VehicleRecord struct {
	StationID   uint64      `json:"stationID"`
	StationType StationType `json:"stationType"`

	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation float64 `json:"elevation"`
	Heading   float64 `json:"heading"` // degrees from north, HeadingUnavailable when absent
	Speed     float64 `json:"speed"`   // m/s, SpeedUnavailable when absent

	// GNTimestamp wraps modulo 2^32 and is only ever compared with the
	// freshness arbiter.
	GNTimestamp uint64 `json:"gnTimestamp"`
	// TimestampUs is the wall-clock time of the last store, used for expiry.
	TimestampUs uint64 `json:"timestampUs"`
	// OnMsgTimestampUs is the wall-clock arrival time of the source message.
	OnMsgTimestampUs uint64 `json:"onMsgTimestampUs"`

	VehicleWidth   Optional[float64] `json:"vehicleWidth"`
	VehicleLength  Optional[float64] `json:"vehicleLength"`
	ExteriorLights Optional[uint8]   `json:"exteriorLights"`

	LongitudinalAcceleration float64        `json:"longitudinalAcceleration"`
	Curvature                float64        `json:"curvature"`
	YawRate                  float64        `json:"yawRate"`
	DriveDirection           DriveDirection `json:"driveDirection"`

	// Set only when the record describes a perceived object.
	Detected        bool              `json:"detected"`
	PerceivedBy     Optional[uint64]  `json:"perceivedBy"`
	XDistance       Optional[float64] `json:"xDistance"`
	YDistance       Optional[float64] `json:"yDistance"`
	XSpeed          Optional[float64] `json:"xSpeed"`
	YSpeed          Optional[float64] `json:"ySpeed"`
	PerceptionConf  Optional[float64] `json:"perceptionConfidence"`
	ObjectAngle     Optional[float64] `json:"objectAngle"`
	ObjectAngleConf Optional[float64] `json:"objectAngleConfidence"`

	StationCertDigest string `json:"stationCertDigest,omitempty"`
}

// NewVehicleRecord returns a record with every dynamics field set to its
// unavailable sentinel.
func NewVehicleRecord(stationID uint64, stationType StationType) VehicleRecord {
	return VehicleRecord{
		StationID:                stationID,
		StationType:              stationType,
		Heading:                  HeadingUnavailable,
		Speed:                    SpeedUnavailable,
		LongitudinalAcceleration: LongitudinalAccelerationUnavailable,
		Curvature:                CurvatureUnavailable,
		YawRate:                  YawRateUnavailable,
		DriveDirection:           DriveDirectionUnavailable,
	}
}

func (v VehicleRecord) HasHeading() bool { return v.Heading != HeadingUnavailable }
func (v VehicleRecord) HasSpeed() bool   { return v.Speed != SpeedUnavailable }
func (v VehicleRecord) HasLongitudinalAcceleration() bool {
	return v.LongitudinalAcceleration != LongitudinalAccelerationUnavailable
}
func (v VehicleRecord) HasCurvature() bool { return v.Curvature != CurvatureUnavailable }
func (v VehicleRecord) HasYawRate() bool   { return v.YawRate != YawRateUnavailable }
func (v VehicleRecord) HasDriveDirection() bool {
	return v.DriveDirection != DriveDirectionUnavailable
}

// IsPerceived reports whether the record was produced from another station's sensors.
func (v VehicleRecord) IsPerceived() bool { return v.PerceivedBy.IsAvailable() }

package v2x

import "fmt"

// StationType follows the ETSI CDD station type codes.
type StationType int

const (
	StationTypeUnknown        StationType = 0
	StationTypePedestrian     StationType = 1
	StationTypeCyclist        StationType = 2
	StationTypeMoped          StationType = 3
	StationTypeMotorcycle     StationType = 4
	StationTypePassengerCar   StationType = 5
	StationTypeBus            StationType = 6
	StationTypeLightTruck     StationType = 7
	StationTypeHeavyTruck     StationType = 8
	StationTypeTrailer        StationType = 9
	StationTypeSpecialVehicle StationType = 10
	StationTypeTram           StationType = 11
	StationTypeRoadSideUnit   StationType = 15

	// Types given to objects perceived by another station.
	StationTypeDetectedPedestrian   StationType = 110
	StationTypeDetectedPassengerCar StationType = 115
	StationTypeDetectedTruck        StationType = 117
)

var stationTypeNames = map[StationType]string{
	StationTypeUnknown:        "unknown",
	StationTypePedestrian:     "pedestrian",
	StationTypeCyclist:        "cyclist",
	StationTypeMoped:          "moped",
	StationTypeMotorcycle:     "motorcycle",
	StationTypePassengerCar:   "passengerCar",
	StationTypeBus:            "bus",
	StationTypeLightTruck:     "lightTruck",
	StationTypeHeavyTruck:     "heavyTruck",
	StationTypeTrailer:        "trailer",
	StationTypeSpecialVehicle: "specialVehicle",
	StationTypeTram:           "tram",
	StationTypeRoadSideUnit:   "roadSideUnit",

	StationTypeDetectedPedestrian:   "detectedPedestrian",
	StationTypeDetectedPassengerCar: "detectedPassengerCar",
	StationTypeDetectedTruck:        "detectedTruck",
}

func (s StationType) String() string {
	if n, ok := stationTypeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stationType(%d)", int(s))
}

// IsVulnerable reports whether the station is a vulnerable road user.
func (s StationType) IsVulnerable() bool {
	return s == StationTypePedestrian || s == StationTypeCyclist || s == StationTypeDetectedPedestrian
}

// IsDetected reports whether the type marks an object perceived by another station.
func (s StationType) IsDetected() bool {
	return s == StationTypeDetectedPedestrian || s == StationTypeDetectedPassengerCar || s == StationTypeDetectedTruck
}

// CauseCode is the DENM hazard cause.
type CauseCode int

const (
	CauseUnknown                     CauseCode = 0
	CauseTrafficCondition            CauseCode = 1
	CauseAccident                    CauseCode = 2
	CauseRoadworks                   CauseCode = 3
	CauseImpassability               CauseCode = 5
	CauseAdverseWeatherAdhesion      CauseCode = 6
	CauseAquaplaning                 CauseCode = 7
	CauseHazardousLocationSurface    CauseCode = 9
	CauseHazardousLocationObstacle   CauseCode = 10
	CauseHazardousLocationAnimal     CauseCode = 11
	CauseHumanPresenceOnTheRoad      CauseCode = 12
	CauseWrongWayDriving             CauseCode = 14
	CauseRescueAndRecoveryInProgress CauseCode = 15
	CauseAdverseWeatherPrecipitation CauseCode = 17
	CauseAdverseWeatherVisibility    CauseCode = 18
	CauseSlowVehicle                 CauseCode = 26
	CauseDangerousEndOfQueue         CauseCode = 27
	CauseVehicleBreakdown            CauseCode = 91
	CausePostCrash                   CauseCode = 92
	CauseHumanProblem                CauseCode = 93
	CauseStationaryVehicle           CauseCode = 94
	CauseEmergencyVehicleApproaching CauseCode = 95
	CauseHazardousLocationCurve      CauseCode = 96
	CauseCollisionRisk               CauseCode = 97
	CauseSignalViolation             CauseCode = 98
	CauseDangerousSituation          CauseCode = 99
)

var causeNames = map[CauseCode]string{
	CauseUnknown:                     "unknown",
	CauseTrafficCondition:            "trafficCondition",
	CauseAccident:                    "accident",
	CauseRoadworks:                   "roadworks",
	CauseImpassability:               "impassability",
	CauseAdverseWeatherAdhesion:      "adverseWeatherCondition-Adhesion",
	CauseAquaplaning:                 "aquaplaning",
	CauseHazardousLocationSurface:    "hazardousLocation-SurfaceCondition",
	CauseHazardousLocationObstacle:   "hazardousLocation-ObstacleOnTheRoad",
	CauseHazardousLocationAnimal:     "hazardousLocation-AnimalOnTheRoad",
	CauseHumanPresenceOnTheRoad:      "humanPresenceOnTheRoad",
	CauseWrongWayDriving:             "wrongWayDriving",
	CauseRescueAndRecoveryInProgress: "rescueAndRecoveryWorkInProgress",
	CauseAdverseWeatherPrecipitation: "adverseWeatherCondition-Precipitation",
	CauseAdverseWeatherVisibility:    "adverseWeatherCondition-Visibility",
	CauseSlowVehicle:                 "slowVehicle",
	CauseDangerousEndOfQueue:         "dangerousEndOfQueue",
	CauseVehicleBreakdown:            "vehicleBreakdown",
	CausePostCrash:                   "postCrash",
	CauseHumanProblem:                "humanProblem",
	CauseStationaryVehicle:           "stationaryVehicle",
	CauseEmergencyVehicleApproaching: "emergencyVehicleApproaching",
	CauseHazardousLocationCurve:      "hazardousLocation-DangerousCurve",
	CauseCollisionRisk:               "collisionRisk",
	CauseSignalViolation:             "signalViolation",
	CauseDangerousSituation:          "dangerousSituation",
}

func (c CauseCode) String() string {
	if n, ok := causeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("cause(%d)", int(c))
}

// MessageType identifies the facility message a decoded envelope came from.
type MessageType int

const (
	MessageUnknown MessageType = iota
	MessageCAM
	MessageDENM
	MessageCPM
	MessageVAM
	// MessageTransit marks vehicle positions bridged from a GTFS-RT feed.
	MessageTransit
)

var messageTypeNames = map[MessageType]string{
	MessageUnknown: "unknown",
	MessageCAM:     "cam",
	MessageDENM:    "denm",
	MessageCPM:     "cpm",
	MessageVAM:     "vam",
	MessageTransit: "transit",
}

func (m MessageType) String() string {
	if n, ok := messageTypeNames[m]; ok {
		return n
	}
	return "unknown"
}

// ParseMessageType maps a lowercase name back to a MessageType.
func ParseMessageType(s string) MessageType {
	for k, v := range messageTypeNames {
		if v == s {
			return k
		}
	}
	return MessageUnknown
}

func (m MessageType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MessageType) UnmarshalText(b []byte) error {
	*m = ParseMessageType(string(b))
	return nil
}

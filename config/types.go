package config

// ServerConfig contains the HTTP API configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// BrokerConfig describes the NATS subject carrying decoded messages
type BrokerConfig struct {
	URL             string `yaml:"url" validate:"omitempty,url"`
	Subject         string `yaml:"subject"`
	QueueGroup      string `yaml:"queueGroup"`
	ReconnectWaitMS int    `yaml:"reconnectWaitMS" validate:"gte=0"`
}

// StoreConfig controls retention of the in-memory stores
type StoreConfig struct {
	VehicleMaxAgeMS     int  `yaml:"vehicleMaxAgeMS" validate:"gte=0"`
	SweepIntervalMS     int  `yaml:"sweepIntervalMS" validate:"gte=0"`
	CertificateMaxAgeMS int  `yaml:"certificateMaxAgeMS" validate:"gte=0"`
	PathHistoryLength   int  `yaml:"pathHistoryLength" validate:"gte=0,lte=1000"`
	DisableAgeCheck     bool `yaml:"disableAgeCheck"`
}

// AreaConfig is the bounding box outside of which messages are dropped.
// An all-zero box disables the filter.
type AreaConfig struct {
	MinLat float64 `yaml:"minLat" validate:"gte=-90,lte=90"`
	MaxLat float64 `yaml:"maxLat" validate:"gte=-90,lte=90,gtefield=MinLat"`
	MinLon float64 `yaml:"minLon" validate:"gte=-180,lte=180"`
	MaxLon float64 `yaml:"maxLon" validate:"gte=-180,lte=180,gtefield=MinLon"`
}

// Enabled reports whether any bound is set.
func (a AreaConfig) Enabled() bool {
	return a != AreaConfig{}
}

// CenterConfig is the position of the roadside unit
type CenterConfig struct {
	Lat float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `yaml:"lon" validate:"gte=-180,lte=180"`
}

// TransitConfig contains the GTFS-Realtime VehiclePositions bridge configuration
type TransitConfig struct {
	VehiclePositionsURL string `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	ReadIntervalMS      int    `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
	StationIDBase       uint64 `yaml:"stationIDBase"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Broker  BrokerConfig  `yaml:"broker"`
	Store   StoreConfig   `yaml:"store"`
	Area    AreaConfig    `yaml:"area"`
	Center  CenterConfig  `yaml:"center"`
	Transit TransitConfig `yaml:"transit"`
	Metrics MetricsConfig `yaml:"metrics"`
}

package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port        int      `yaml:"port" validate:"gt=0,lte=65535"`
	CORSOrigins []string `yaml:"corsOrigins" validate:"omitempty,dive,required"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// LatencyConfig is the simulated latency of every provider in milliseconds.
// Zero keeps the built-in default for that capability.
type LatencyConfig struct {
	Schedules int `yaml:"schedules" validate:"gte=0"`
	Seat      int `yaml:"seat" validate:"gte=0"`
	Tatkal    int `yaml:"tatkal" validate:"gte=0"`
	Sentiment int `yaml:"sentiment" validate:"gte=0"`
	Tracking  int `yaml:"tracking" validate:"gte=0"`
	Bookings  int `yaml:"bookings" validate:"gte=0"`
	PNR       int `yaml:"pnr" validate:"gte=0"`
	Draft     int `yaml:"draft" validate:"gte=0"`
	Chat      int `yaml:"chat" validate:"gte=0"`
	Planner   int `yaml:"planner" validate:"gte=0"`
}

// ProvidersConfig contains provider adapter configuration
type ProvidersConfig struct {
	LatencyMS LatencyConfig `yaml:"latencyMS"`
	JitterMS  int           `yaml:"jitterMS" validate:"gte=0"`
	TimeoutMS int           `yaml:"timeoutMS" validate:"gte=0"`
}

// SimulatorConfig contains position simulator timing
type SimulatorConfig struct {
	InitialDelayMS int `yaml:"initialDelayMS" validate:"gte=0"`
	MinStepMS      int `yaml:"minStepMS" validate:"gte=0"`
	MaxStepMS      int `yaml:"maxStepMS" validate:"gte=0,gtefield=MinStepMS"`
}

// CacheConfig selects the coalescer expiry policy
type CacheConfig struct {
	Policy     string `yaml:"policy" validate:"omitempty,oneof=none ttl"`
	TTLSeconds int    `yaml:"ttlSeconds" validate:"required_if=Policy ttl,gte=0"`
}

// BookingsConfig contains booking source configuration
type BookingsConfig struct {
	SQLitePath string `yaml:"sqlitePath"`
}

// TrackingConfig contains the optional GTFS feeds behind live tracking
type TrackingConfig struct {
	FeedURL  string `yaml:"feedURL"`
	GTFSPath string `yaml:"gtfsPath"`
	AgencyID string `yaml:"agency_id"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig    `yaml:"server" validate:"required"`
	Log       LogConfig       `yaml:"log"`
	Providers ProvidersConfig `yaml:"providers"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Cache     CacheConfig     `yaml:"cache"`
	Bookings  BookingsConfig  `yaml:"bookings"`
	Tracking  TrackingConfig  `yaml:"tracking"`
}

package config

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool `json:"metric_enabled"`
	ProfilingEnabled bool `json:"profiling_enabled"`
	// EventsEnabled streams recorder notifications over a websocket.
	EventsEnabled bool `json:"events_enabled"`
	// ControlEnabled allows pause, resume, end and snapshots over HTTP.
	ControlEnabled bool `json:"control_enabled"`
}

func (c *Monitoring) IsEnabled() bool {
	return c.MetricEnabled || c.ProfilingEnabled || c.EventsEnabled || c.ControlEnabled
}

// Storage is a remote place for finished recordings.
type Storage struct {
	// Provider is one of: s3, gcs, http or empty for none.
	Provider string
	Bucket   string
	// Prefix of the uploaded object names.
	Prefix string

	S3Endpoint        string
	S3AccessKeyId     string
	S3SecretAccessKey string
	S3Insecure        bool

	// PutURL is a pre-authenticated URL the recordings are PUT under.
	PutURL string
}

func (s *Storage) IsEnabled() bool { return s.Provider != "" }

type Log struct {
	Debug   bool
	Console bool
	NoColor bool
}

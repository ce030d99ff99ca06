package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Notifier   NotifierConfig   `mapstructure:"notifier" validate:"required"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory stores, intended for local
// development and load testing only.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// NotifierConfig selects and configures the notification send provider.
// Provider "simulated" replaces real delivery with a fixed delay; it is
// used for load testing so the consumer keeps a realistic timing
// profile without invoking SendGrid.
type NotifierConfig struct {
	Provider         string `mapstructure:"provider" validate:"required,oneof=sendgrid simulated"`
	SendGridAPIKey   string `mapstructure:"sendgrid_api_key" validate:"required_if=Provider sendgrid"`
	FromAddress      string `mapstructure:"from_address" validate:"required,email"`
	FromName         string `mapstructure:"from_name"`
	SimulatedDelayMs int    `mapstructure:"simulated_delay_ms" validate:"gte=0"`
}

// ReconcilerConfig configures the overdue-scanning job. IntervalMinutes
// of zero disables the in-process ticker; the job then runs only when
// an external scheduler hits the trigger endpoint.
type ReconcilerConfig struct {
	IntervalMinutes int    `mapstructure:"interval_minutes" validate:"gte=0"`
	WatermarkScope  string `mapstructure:"watermark_scope"`
}

// ArchiveConfig configures the external-task archival sink.
type ArchiveConfig struct {
	Dir string `mapstructure:"dir"`
}

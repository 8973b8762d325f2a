// Package config loads wnedit's runtime configuration: where the store
// lives on disk, its connection pragmas, the default export target
// version, and logging. Priority is ENV > YAML > env-default tags, read
// with cleanenv.
package config

// Config is the root application configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	LMF   LMFConfig   `yaml:"lmf"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig holds the embedded store's connection settings.
type StoreConfig struct {
	Path        string `yaml:"path"         env:"STORE_PATH"         env-default:"./wnedit.db"`
	WAL         bool   `yaml:"wal"          env:"STORE_WAL"          env-default:"true"`
	BusyTimeout int    `yaml:"busy_timeout" env:"STORE_BUSY_TIMEOUT" env-default:"5000"`
}

// LMFConfig holds defaults for Importer/Exporter operations.
type LMFConfig struct {
	DefaultExportVersion string `yaml:"default_export_version" env:"LMF_DEFAULT_EXPORT_VERSION" env-default:"1.4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

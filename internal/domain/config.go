package domain

import "time"

// Transform backends
const (
	BackendAuto       = "auto"
	BackendCloudinary = "cloudinary"
	BackendFFmpeg     = "ffmpeg"
)

// Config represents application configuration
type Config struct {
	Bot struct {
		Token        string `yaml:"token"`
		APIEndpoint  string `yaml:"api_endpoint"`
		// FileEndpoint defaults to the file route of APIEndpoint.
		FileEndpoint string `yaml:"file_endpoint"`
		Debug        bool   `yaml:"debug"`
	} `yaml:"bot"`
	Transform struct {
		Backend    string `yaml:"backend"`
		Cloudinary struct {
			CloudName string `yaml:"cloud_name"`
			APIKey    string `yaml:"api_key"`
			APISecret string `yaml:"api_secret"`
			Folder    string `yaml:"folder"`
		} `yaml:"cloudinary"`
		FFmpeg struct {
			Binary string `yaml:"binary"`
			Preset string `yaml:"preset"`
		} `yaml:"ffmpeg"`
	} `yaml:"transform"`
	Processing struct {
		MaxConcurrent    int           `yaml:"max_concurrent"`
		MaxVideoSizeMB   int64         `yaml:"max_video_size_mb"`
		DownloadDir      string        `yaml:"download_dir"`
		ProgressInterval time.Duration `yaml:"progress_interval"`
	} `yaml:"processing"`
	Language struct {
		Default string `yaml:"default"`
		Store   string `yaml:"store"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"language"`
	Janitor struct {
		Schedule string        `yaml:"schedule"`
		MaxAge   time.Duration `yaml:"max_age"`
	} `yaml:"janitor"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// MaxVideoSizeBytes returns the inbound size limit in bytes.
func (c *Config) MaxVideoSizeBytes() int64 {
	return c.Processing.MaxVideoSizeMB * 1024 * 1024
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"github.com/spf13/viper"
)

//Config is the resolved process configuration
type Config struct {
	Port            string
	StaticFilesPath string
	AllowedOrigin   string
	RootDir         string
	TempDir         string
	StorePath       string
	MaxUploadBytes  int64

	ModelPath     string
	PoolSize      int
	InputWidth    int
	InputHeight   int
	MinConfidence float64

	Thresholds posture.Thresholds
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8000")
	v.SetDefault("frontend.static-files-path", "")
	v.SetDefault("frontend.origin", "http://localhost:5173")
	v.SetDefault("directory.root", "./data")
	v.SetDefault("directory.temp", "./data/tmp")
	v.SetDefault("store.path", "./data/reports.db")
	v.SetDefault("upload.max-bytes", 200<<20)

	v.SetDefault("model.openpose", "./openpose/graph_opt.pb")
	v.SetDefault("model.pool-size", 2)
	v.SetDefault("model.input-width", 368)
	v.SetDefault("model.input-height", 368)
	v.SetDefault("model.min-confidence", 0.1)

	v.SetDefault("thresholds.squat.back-angle", posture.DefaultSquatBackAngle)
	v.SetDefault("thresholds.squat.knee-toe-diff", posture.DefaultSquatKneeToeDiff)
	v.SetDefault("thresholds.sitting.back-angle", posture.DefaultSittingBackAngle)
	v.SetDefault("thresholds.sitting.neck-angle", posture.DefaultSittingNeckAngle)
}

//Load reads configuration from path, or from config.yaml in the working
//directory when path is empty. A missing file is not an error: defaults and
//POSTURE_* environment variables (e.g. POSTURE_HTTP_PORT) still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("posture")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Load: Could not read config file, got '%v'", err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("http.port"),
		StaticFilesPath: v.GetString("frontend.static-files-path"),
		AllowedOrigin:   v.GetString("frontend.origin"),
		RootDir:         v.GetString("directory.root"),
		TempDir:         v.GetString("directory.temp"),
		StorePath:       v.GetString("store.path"),
		MaxUploadBytes:  v.GetInt64("upload.max-bytes"),

		ModelPath:     v.GetString("model.openpose"),
		PoolSize:      v.GetInt("model.pool-size"),
		InputWidth:    v.GetInt("model.input-width"),
		InputHeight:   v.GetInt("model.input-height"),
		MinConfidence: v.GetFloat64("model.min-confidence"),

		Thresholds: posture.Thresholds{
			SquatBackAngle:   v.GetFloat64("thresholds.squat.back-angle"),
			SquatKneeToeDiff: v.GetFloat64("thresholds.squat.knee-toe-diff"),
			SittingBackAngle: v.GetFloat64("thresholds.sitting.back-angle"),
			SittingNeckAngle: v.GetFloat64("thresholds.sitting.neck-angle"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("Load: Missing http.port")
	}
	if c.ModelPath == "" {
		return errors.New("Load: Missing model.openpose")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("Load: model.pool-size must be positive, got %d", c.PoolSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("Load: upload.max-bytes must be positive, got %d", c.MaxUploadBytes)
	}

	return c.Thresholds.Validate()
}

package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Bootstrap is the root configuration of the moderation service.
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Classifier *Classifier `json:"classifier"`
	Moderation *Moderation `json:"moderation"`
	Log        *Log        `json:"log"`
}

// Server holds transport settings.
type Server struct {
	HTTP *Server_HTTP `json:"http"`
	GRPC *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds storage settings.
type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	Driver string     `json:"driver"`
	Source string     `json:"source"`
	Pool   *Data_Pool `json:"pool"`
}

type Data_Pool struct {
	MaxOpenConns    int32    `json:"max_open_conns"`
	MinIdleConns    int32    `json:"min_idle_conns"`
	MaxConnLifetime Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime Duration `json:"max_conn_idle_time"`
}

type Data_Redis struct {
	URL          string   `json:"url"`
	OpTimeout    Duration `json:"op_timeout"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Classifier configures the upstream text and image classification providers.
type Classifier struct {
	APIKey         string   `json:"api_key"`
	TextEndpoint   string   `json:"text_endpoint"`
	ImageEndpoint  string   `json:"image_endpoint"`
	Timeout        Duration `json:"timeout"`
	TextAttributes []string `json:"text_attributes"`
}

// Moderation configures the cache-aside layer and the threshold policy.
type Moderation struct {
	VerdictTTL        Duration `json:"verdict_ttl"`
	StatsTTL          Duration `json:"stats_ttl"`
	// ToxicityThreshold is nil when unset. An explicit 0 flags any positive score.
	ToxicityThreshold *float64 `json:"toxicity_threshold"`
}

type Log struct {
	Level string `json:"level"`
}

// Duration is a time.Duration that decodes from strings such as "250ms" or "1h".
// Bare numbers are read as seconds.
type Duration time.Duration

// AsDuration returns d as a time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("conf: invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("conf: invalid duration %s", string(b))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Validate reports configuration that must stop the process at startup.
func (b *Bootstrap) Validate() error {
	if b.Classifier == nil || b.Classifier.APIKey == "" {
		return errors.New("conf: classifier api key is required (CLASSIFIER_API_KEY)")
	}
	if b.Data == nil || b.Data.Database == nil || b.Data.Database.Source == "" {
		return errors.New("conf: database source is required (DATABASE_URL)")
	}
	if b.Data.Redis == nil || b.Data.Redis.URL == "" {
		return errors.New("conf: cache url is required (CACHE_URL)")
	}
	if b.Moderation == nil {
		return errors.New("conf: moderation section is required")
	}
	if b.Moderation.VerdictTTL <= 0 || b.Moderation.StatsTTL <= 0 {
		return errors.New("conf: moderation ttls must be positive")
	}
	if t := b.Moderation.ToxicityThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("conf: toxicity threshold %v outside [0, 1]", *t)
	}
	return nil
}

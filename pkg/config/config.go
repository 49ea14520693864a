package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TransportWebSocket = "websocket"
	TransportRedis     = "redis"
	TransportKafka     = "kafka"

	FramingJSON     = "json"
	FramingSocketIO = "socketio"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Enabled         bool          `yaml:"enabled" default:"true"`
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			// RPS of zero disables limiting.
			RPS   float64 `yaml:"rps" default:"20"`
			Burst int     `yaml:"burst" default:"40"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"backend"`
	Push struct {
		Transport string `yaml:"transport" default:"websocket"`
		WebSocket struct {
			URL            string        `yaml:"url"`
			Framing        string        `yaml:"framing" default:"json"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
			PingInterval   time.Duration `yaml:"ping_interval" default:"25s"`
			HandshakeTO    time.Duration `yaml:"handshake_timeout" default:"10s"`
		} `yaml:"websocket"`
		Redis struct {
			Addr           string        `yaml:"addr" default:"localhost:6379"`
			Password       string        `yaml:"password"`
			DB             int           `yaml:"db"`
			Channel        string        `yaml:"channel" default:"signaldash:events"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers        []string      `yaml:"brokers"`
			Topic          string        `yaml:"topic" default:"signaldash.events"`
			Partition      int           `yaml:"partition"`
			MinBytes       int           `yaml:"min_bytes" default:"1"`
			MaxBytes       int           `yaml:"max_bytes" default:"1048576"`
			MaxWait        time.Duration `yaml:"max_wait" default:"500ms"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
			HealthInterval time.Duration `yaml:"health_interval" default:"5s"`
		} `yaml:"kafka"`
	} `yaml:"push"`
	Dashboard struct {
		VisibleSignals  int           `yaml:"visible_signals" default:"20"`
		ProfitPoints    int           `yaml:"profit_points" default:"20"`
		NotificationTTL time.Duration `yaml:"notification_ttl" default:"3s"`
		HighlightTTL    time.Duration `yaml:"highlight_ttl" default:"500ms"`
		ClockInterval   time.Duration `yaml:"clock_interval" default:"1s"`
		ResyncSignals   bool          `yaml:"resync_signals" default:"true"`
		QueueSize       int           `yaml:"queue_size" default:"256"`
	} `yaml:"dashboard"`
	Render struct {
		TUI bool `yaml:"tui"`
	} `yaml:"render"`
}

// Load reads and parses a YAML configuration file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse builds a validated config from YAML bytes.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// decode fills defaults first so that explicit zero values in YAML
// (resync_signals: false) are not overwritten.
func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads an optional .env file next to the process, reads YAML and then
// applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SIGNALDASH_BACKEND_URL"); ok && v != "" {
		c.Backend.BaseURL = v
	}
	if v, ok := lookup("SIGNALDASH_PUSH_TRANSPORT"); ok && v != "" {
		c.Push.Transport = v
	}
	if v, ok := lookup("SIGNALDASH_PUSH_URL"); ok && v != "" {
		c.Push.WebSocket.URL = v
	}
	if v, ok := lookup("SIGNALDASH_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("SIGNALDASH_TUI"); ok && v != "" {
		tui, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SIGNALDASH_TUI: %w", err)
		}
		c.Render.TUI = tui
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Push.Redis.Addr = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Push.Kafka.Brokers = strings.Split(v, ",")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Push.Transport {
	case TransportWebSocket:
		if c.Push.WebSocket.URL == "" {
			return fmt.Errorf("push.websocket.url is required for the websocket transport")
		}
		if c.Push.WebSocket.Framing != FramingJSON && c.Push.WebSocket.Framing != FramingSocketIO {
			return fmt.Errorf("push.websocket.framing must be '%s' or '%s', got '%s'", FramingJSON, FramingSocketIO, c.Push.WebSocket.Framing)
		}
	case TransportRedis:
		if c.Push.Redis.Addr == "" || c.Push.Redis.Channel == "" {
			return fmt.Errorf("push.redis.addr and push.redis.channel are required for the redis transport")
		}
	case TransportKafka:
		if len(c.Push.Kafka.Brokers) == 0 || c.Push.Kafka.Topic == "" {
			return fmt.Errorf("push.kafka.brokers and push.kafka.topic are required for the kafka transport")
		}
	default:
		return fmt.Errorf("push.transport must be 'websocket', 'redis' or 'kafka', got '%s'", c.Push.Transport)
	}
	if c.Dashboard.VisibleSignals < 1 || c.Dashboard.ProfitPoints < 1 {
		return fmt.Errorf("dashboard.visible_signals and dashboard.profit_points must be positive")
	}
	if c.Dashboard.NotificationTTL <= 0 || c.Dashboard.HighlightTTL <= 0 || c.Dashboard.ClockInterval < time.Second {
		return fmt.Errorf("dashboard timers must be positive and clock_interval at least 1s")
	}
	return nil
}

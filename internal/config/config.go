// Package config loads the broker configuration from a TOML file, a .env file and
// BROKER_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to the upper snake case form of every TOML key,
// e.g. autoCreateTopicEnable is overridden by BROKER_AUTO_CREATE_TOPIC_ENABLE.
const EnvPrefix = "BROKER_"

// BrokerConfig holds all configuration of the broker process.
type BrokerConfig struct {
	BrokerName        string `toml:"brokerName" validate:"required"`
	BrokerClusterName string `toml:"brokerClusterName" validate:"required"`
	StorePathRootDir  string `toml:"storePathRootDir" validate:"required"`

	AutoCreateTopicEnable bool   `toml:"autoCreateTopicEnable"`
	ClusterTopicEnable    bool   `toml:"clusterTopicEnable"`
	BrokerTopicEnable     bool   `toml:"brokerTopicEnable"`
	TraceTopicEnable      bool   `toml:"traceTopicEnable"`
	MsgTraceTopicName     string `toml:"msgTraceTopicName" validate:"required"`
	DefaultTopicQueueNums uint32 `toml:"defaultTopicQueueNums" validate:"min=1,max=1024"`
	ReviveQueueNum        uint32 `toml:"reviveQueueNum" validate:"min=1"`
	TimerWheelEnable      bool   `toml:"timerWheelEnable"`

	EnableSingleTopicRegister bool `toml:"enableSingleTopicRegister"`
	EnableSplitRegistration   bool `toml:"enableSplitRegistration"`

	AdminAddr           string `toml:"adminAddr" validate:"required,hostname_port"`
	AdminAutoCreateRate uint32 `toml:"adminAutoCreateRate"`
	LogFormat           string `toml:"logFormat" validate:"oneof=text json"`
	LogLevel            string `toml:"logLevel" validate:"oneof=debug info warn error"`

	TracingEnabled bool   `toml:"tracingEnabled"`
	ZipkinURL      string `toml:"zipkinURL" validate:"omitempty,url"`
}

// Default returns the configuration used when no file or override is given.
func Default() *BrokerConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &BrokerConfig{
		BrokerName:            "broker-a",
		BrokerClusterName:     "DefaultCluster",
		StorePathRootDir:      filepath.Join(home, "store"),
		AutoCreateTopicEnable: true,
		ClusterTopicEnable:    true,
		BrokerTopicEnable:     true,
		TraceTopicEnable:      false,
		MsgTraceTopicName:     "RMQ_SYS_TRACE_TOPIC",
		DefaultTopicQueueNums: 8,
		ReviveQueueNum:        8,
		AdminAddr:             "127.0.0.1:10912",
		AdminAutoCreateRate:   20,
		LogFormat:             "text",
		LogLevel:              "info",
		ZipkinURL:             "http://localhost:9411/api/v2/spans",
	}
}

// Load reads the configuration. A missing file at path leaves the defaults in place;
// an empty path skips the file entirely. Overrides from .env and the process
// environment are applied afterwards and the result is validated.
func Load(path string) (*BrokerConfig, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			slog.Info("No config file found, using defaults", "path", path)
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML content on top of the defaults without consulting the environment.
func Parse(data string) (*BrokerConfig, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from variables named EnvPrefix + the upper snake case TOML key.
// Every malformed value is reported.
func (c *BrokerConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	var result error

	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("toml")
		if key == "" {
			continue
		}
		name := EnvName(key)
		raw, ok := lookup(name)
		if !ok {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
				continue
			}
			field.SetBool(b)
		case reflect.Uint32:
			n, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
				continue
			}
			field.SetUint(n)
		}
	}
	return result
}

// EnvName returns the environment variable overriding the TOML key.
func EnvName(key string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(rune(key[i-1])) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

var validate = validator.New()

// Validate checks field constraints and reports every violation.
func (c *BrokerConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var result error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, fmt.Errorf("config: %s failed on %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return result
}

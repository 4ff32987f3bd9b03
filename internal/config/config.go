package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TIMEPICK"

type FieldKind string

const (
	KindText FieldKind = "text"
	KindDate FieldKind = "date"
	KindTime FieldKind = "time"
)

// FieldDef is one input of the form. Options is the picker option bag and only
// applies to time fields.
type FieldDef struct {
	ID      string            `mapstructure:"id" json:"id"`
	Label   string            `mapstructure:"label" json:"label,omitempty"`
	Kind    FieldKind         `mapstructure:"kind" json:"kind"`
	Value   string            `mapstructure:"value" json:"value,omitempty"`
	Options map[string]string `mapstructure:"options" json:"options,omitempty"`
}

// DisplayLabel falls back to the id.
func (f FieldDef) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.ID
}

type WebConfig struct {
	Addr      string  `mapstructure:"addr" json:"addr"`
	RateLimit float64 `mapstructure:"rate_limit" json:"rateLimit"`
	Burst     int     `mapstructure:"burst" json:"burst"`
}

type Config struct {
	Dir      string     `mapstructure:"dir" json:"dir,omitempty"`
	LogLevel string     `mapstructure:"log_level" json:"logLevel"`
	LogFile  string     `mapstructure:"log_file" json:"logFile,omitempty"`
	Web      WebConfig  `mapstructure:"web" json:"web"`
	Fields   []FieldDef `mapstructure:"fields" json:"fields"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" json:"file,omitempty"`
}

// Load reads .env (best effort), then the config file and TIMEPICK_* environment
// variables. An explicit path must exist; otherwise timepick.yaml is looked up in the
// working directory and ~/.timepick. No fields configured means the demo form.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dir", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("web.addr", "127.0.0.1:8765")
	v.SetDefault("web.rate_limit", 20.0)
	v.SetDefault("web.burst", 40)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("timepick")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".timepick"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if len(cfg.Fields) == 0 {
		cfg.Fields = DemoFields()
	}
	for i := range cfg.Fields {
		cfg.Fields[i].normalize()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (f *FieldDef) normalize() {
	f.ID = strings.TrimSpace(f.ID)
	f.Kind = FieldKind(strings.ToLower(strings.TrimSpace(string(f.Kind))))
	if f.Kind == "" {
		f.Kind = KindText
	}
}

// Validate rejects empty or duplicate ids and unknown kinds.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i, f := range c.Fields {
		if f.ID == "" {
			return fmt.Errorf("fields[%d]: id is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("fields[%d]: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = true
		switch f.Kind {
		case KindText, KindDate, KindTime:
		default:
			return fmt.Errorf("field %q: unknown kind %q (expected text, date or time)", f.ID, f.Kind)
		}
	}
	return nil
}

func (c *Config) Field(id string) (FieldDef, bool) {
	for _, f := range c.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDef{}, false
}

// TimeFields lists the fields that get a picker, in form order.
func (c *Config) TimeFields() []FieldDef {
	var out []FieldDef
	for _, f := range c.Fields {
		if f.Kind == KindTime {
			out = append(out, f)
		}
	}
	return out
}

// DemoFields is a small departure/return form exercising every rule kind.
func DemoFields() []FieldDef {
	return []FieldDef{
		{ID: "depart-date", Label: "Depart date", Kind: KindDate},
		{ID: "depart-time", Label: "Depart time", Kind: KindTime, Options: map[string]string{
			"minute-interval": "15",
			"min-time":        "6:00 AM",
			"max-time":        "10:00 PM",
		}},
		{ID: "arrive-time", Label: "Arrive time", Kind: KindTime, Options: map[string]string{
			"minute-interval": "15",
			"min-offset":      "depart-time:30",
			"disabled-times":  "12:00 PM, 12:15 PM",
		}},
		{ID: "return-date", Label: "Return date", Kind: KindDate},
		{ID: "return-time", Label: "Return time", Kind: KindTime, Options: map[string]string{
			"minute-interval":     "30",
			"date-ref":            "return-date",
			"datetime-min-offset": "depart-date,depart-time:120",
		}},
		{ID: "note", Label: "Note", Kind: KindText},
	}
}

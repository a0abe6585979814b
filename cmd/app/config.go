package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

const envPrefix = "HELIOTHERM_"

type Config struct {
	DeviceID string `koanf:"device_id"`

	Logging struct {
		Debug bool `koanf:"debug"`
	} `koanf:"logging"`

	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		Modbus ModbusConfig `koanf:"modbus"`
		Kafka  KafkaConfig  `koanf:"kafka"`
	} `koanf:"controllers"`

	Simulation SimulationConfig `koanf:"simulation"`
}

// SimulationConfig overrides individual simulation parameters. Unset fields
// keep their defaults.
type SimulationConfig struct {
	IrradianceStartHour *float64 `koanf:"irradiance_start_hour"`
	IrradiancePeakHour  *float64 `koanf:"irradiance_peak_hour"`
	IrradianceEndHour   *float64 `koanf:"irradiance_end_hour"`
	SolarIrradiancePeak *float64 `koanf:"solar_irradiance_peak"`

	AmbientTemp *float64 `koanf:"ambient_temp"`

	PanelArea       *float64 `koanf:"panel_area"`
	PanelEfficiency *float64 `koanf:"panel_efficiency"`
	PanelRefTemp    *float64 `koanf:"panel_ref_temp"`
	PanelTempCoeff  *float64 `koanf:"panel_temp_coeff"`
	PanelUValue     *float64 `koanf:"panel_u_value"`

	TankVolume      *float64 `koanf:"tank_volume"`
	TankSurfaceArea *float64 `koanf:"tank_surface_area"`
	TankUValue      *float64 `koanf:"tank_u_value"`
	InitialTankTemp *float64 `koanf:"initial_tank_temp"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainSnapshot  bool          `koanf:"retain_snapshot"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Addr         string        `koanf:"addr"`
	UnitID       byte          `koanf:"unit_id"`
	SyncInterval time.Duration `koanf:"sync_interval"`
}

type KafkaConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Brokers      []string      `koanf:"brokers"`
	Topic        string        `koanf:"topic"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.DeviceID = "heliotherm"
	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Controllers.MQTT.PublishInterval = 1 * time.Second
	cfg.Controllers.Modbus.UnitID = 1
	return cfg
}

// LoadConfig layers defaults, an optional yaml/json file, and HELIOTHERM_*
// environment variables, later sources winning. A missing file falls back to
// defaults; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, envPrefix)), value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if !cfg.Controllers.HTTP.Enabled && !cfg.Controllers.MQTT.Enabled &&
		!cfg.Controllers.Modbus.Enabled && !cfg.Controllers.Kafka.Enabled {
		cfg.Controllers.HTTP.Enabled = true
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// envKeyTransform maps HELIOTHERM_CONTROLLERS_HTTP_ADDR style variables onto
// dotted koanf paths. Section names disambiguate where the underscores split:
// everything after the section (and, for controllers, the controller name)
// stays a single snake_case key.
func envKeyTransform(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	parts := strings.Split(key, "_")

	switch parts[0] {
	case "controllers":
		if len(parts) >= 3 {
			return parts[0] + "." + parts[1] + "." + strings.Join(parts[2:], "_")
		}
	case "simulation", "logging":
		if len(parts) >= 2 {
			return parts[0] + "." + strings.Join(parts[1:], "_")
		}
	}
	return key
}

// Params builds the simulation parameter set, starting from the defaults and
// applying any configured overrides.
func (c SimulationConfig) Params() solar.Params {
	p := solar.DefaultParams()

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.IrradianceStartHour, c.IrradianceStartHour)
	set(&p.IrradiancePeakHour, c.IrradiancePeakHour)
	set(&p.IrradianceEndHour, c.IrradianceEndHour)
	set(&p.SolarIrradiancePeak, c.SolarIrradiancePeak)
	set(&p.AmbientTemp, c.AmbientTemp)
	set(&p.PanelArea, c.PanelArea)
	set(&p.PanelEfficiency, c.PanelEfficiency)
	set(&p.PanelRefTemp, c.PanelRefTemp)
	set(&p.PanelTempCoeff, c.PanelTempCoeff)
	set(&p.PanelUValue, c.PanelUValue)
	set(&p.TankVolume, c.TankVolume)
	set(&p.TankSurfaceArea, c.TankSurfaceArea)
	set(&p.TankUValue, c.TankUValue)
	set(&p.InitialTankTemp, c.InitialTankTemp)
	return p
}

package backtest

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/internal/version"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the YAML backtest configuration. CLI flags override file values.
type Config struct {
	EngineVersion string                  `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=argo-ma version the config was written for. Major and minor must match the running binary"`
	Symbol        string                  `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Instrument to backtest,default=COMPUSDT" validate:"required"`
	Granularity   string                  `yaml:"granularity" json:"granularity" jsonschema:"title=Granularity,description=Bar granularity. Backtests step by calendar day,enum=1d,default=1d" validate:"required,eq=1d"`
	Period        int                     `yaml:"period" json:"period" jsonschema:"title=Period,description=Moving average look-back in days,minimum=1,default=30" validate:"required,min=1"`
	StartDate     string                  `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=First replayed day (YYYYMMDD),default=20230101" validate:"required,len=8,numeric"`
	EndDate       string                  `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Last replayed day inclusive (YYYYMMDD),default=20230801" validate:"required,len=8,numeric"`
	InitialCash   float64                 `yaml:"initial_cash" json:"initial_cash" jsonschema:"title=Initial Cash,description=Starting cash,minimum=0,default=1000" validate:"gt=0"`
	DataPath      optional.Option[string] `yaml:"data_path" json:"data_path,omitempty" jsonschema:"title=Data Path,description=Optional parquet file to read bars from instead of the exchange"`
}

// DefaultConfig mirrors the defaults of the original backtest script.
func DefaultConfig() Config {
	return Config{
		EngineVersion: "",
		Symbol:        "COMPUSDT",
		Granularity:   types.GranularityDaily,
		Period:        30,
		StartDate:     "20230101",
		EndDate:       "20230801",
		InitialCash:   1000,
		DataPath:      optional.None[string](),
	}
}

// UnmarshalYAML decodes the optional data_path into an optional.Option.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		EngineVersion string  `yaml:"engine_version"`
		Symbol        string  `yaml:"symbol"`
		Granularity   string  `yaml:"granularity"`
		Period        int     `yaml:"period"`
		StartDate     string  `yaml:"start_date"`
		EndDate       string  `yaml:"end_date"`
		InitialCash   float64 `yaml:"initial_cash"`
		DataPath      *string `yaml:"data_path"`
	}

	raw := rawConfig{
		EngineVersion: c.EngineVersion,
		Symbol:        c.Symbol,
		Granularity:   c.Granularity,
		Period:        c.Period,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		InitialCash:   c.InitialCash,
		DataPath:      nil,
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.EngineVersion = raw.EngineVersion
	c.Symbol = raw.Symbol
	c.Granularity = raw.Granularity
	c.Period = raw.Period
	c.StartDate = raw.StartDate
	c.EndDate = raw.EndDate
	c.InitialCash = raw.InitialCash

	if raw.DataPath != nil && *raw.DataPath != "" {
		c.DataPath = optional.Some(*raw.DataPath)
	}

	return nil
}

// MarshalYAML writes data_path as a plain string.
func (c Config) MarshalYAML() (any, error) {
	type rawConfig struct {
		EngineVersion string  `yaml:"engine_version,omitempty"`
		Symbol        string  `yaml:"symbol"`
		Granularity   string  `yaml:"granularity"`
		Period        int     `yaml:"period"`
		StartDate     string  `yaml:"start_date"`
		EndDate       string  `yaml:"end_date"`
		InitialCash   float64 `yaml:"initial_cash"`
		DataPath      string  `yaml:"data_path,omitempty"`
	}

	return rawConfig{
		EngineVersion: c.EngineVersion,
		Symbol:        c.Symbol,
		Granularity:   c.Granularity,
		Period:        c.Period,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		InitialCash:   c.InitialCash,
		DataPath:      c.DataPath.TakeOr(""),
	}, nil
}

// LoadConfig reads, parses and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read backtest config %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints, the date range and engine_version
// compatibility.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.EngineVersion); err != nil {
		return err
	}

	start, err := ParseDate(c.StartDate)
	if err != nil {
		return err
	}

	end, err := ParseDate(c.EndDate)
	if err != nil {
		return err
	}

	if end.Before(start) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}

	return nil
}

// Params converts the config into engine parameters.
func (c *Config) Params() (Params, error) {
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return Params{}, err
	}

	end, err := ParseDate(c.EndDate)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Period:      c.Period,
		StartDate:   start,
		EndDate:     end,
		InitialCash: decimal.NewFromFloat(c.InitialCash),
	}, nil
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.HasPrefix(t.String(), "optional.Option[string]") {
				return &jsonschema.Schema{
					Type: "string",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "argo-ma-backtest-config"
	schema.Description = "Configuration schema for the moving average backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

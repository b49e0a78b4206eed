package scanner

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-ma/internal/strategy"
	"github.com/rxtech-lab/argo-ma/internal/types"
	"github.com/rxtech-lab/argo-ma/internal/version"
	"github.com/rxtech-lab/argo-ma/pkg/errors"
	"github.com/rxtech-lab/argo-ma/pkg/marketdata/provider"
	"gopkg.in/yaml.v3"
)

// Config is the YAML scan configuration. CLI flags override file values.
type Config struct {
	EngineVersion     string             `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=argo-ma version the config was written for. Major and minor must match the running binary"`
	Provider          string             `yaml:"provider" json:"provider" jsonschema:"title=Provider,description=Market data provider,enum=binance,enum=polygon,enum=parquet,default=binance" validate:"required,oneof=binance polygon parquet"`
	Strategy          types.StrategyType `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Signal strategy,enum=single_ma,enum=bullish_stack,default=single_ma" validate:"required,oneof=single_ma bullish_stack"`
	Params            strategy.Params    `yaml:"params" json:"params,omitempty" jsonschema:"title=Strategy Params,description=Moving average periods. Zero fields use defaults"`
	Granularity       string             `yaml:"granularity" json:"granularity" jsonschema:"title=Granularity,description=Bar granularity label,default=1d" validate:"required"`
	Workers           int                `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Instruments evaluated in parallel,minimum=1,maximum=64,default=1" validate:"min=1,max=64"`
	RequestsPerSecond float64            `yaml:"requests_per_second" json:"requests_per_second" jsonschema:"title=Requests Per Second,description=Provider call rate shared by all workers,default=1" validate:"gt=0"`
	MaxRetries        int                `yaml:"max_retries" json:"max_retries" jsonschema:"title=Max Retries,description=Retries of a failed provider call,minimum=0,maximum=10,default=3" validate:"min=0,max=10"`
	RetryInterval     time.Duration      `yaml:"retry_interval" json:"retry_interval" jsonschema:"title=Retry Interval,description=First retry delay as a Go duration (e.g. 1s). Doubles per retry,default=1s"`
	UsePreviousClose  bool               `yaml:"use_previous_close" json:"use_previous_close" jsonschema:"title=Use Previous Close,description=Compare the previous completed daily close instead of the live price,default=false"`
	Symbols           []string           `yaml:"symbols" json:"symbols,omitempty" jsonschema:"title=Symbols,description=Instruments to scan. Empty means the provider universe" validate:"dive,required"`
}

// DefaultConfig paces one request per second on a single worker, matching the
// one-second pause of the original scan loop.
func DefaultConfig() Config {
	return Config{
		EngineVersion:     "",
		Provider:          string(provider.ProviderBinance),
		Strategy:          types.StrategyTypeSingleMA,
		Params:            strategy.Params{Period: 0, Short: 0, Medium: 0, Long: 0},
		Granularity:       types.GranularityDaily,
		Workers:           1,
		RequestsPerSecond: 1,
		MaxRetries:        3,
		RetryInterval:     time.Second,
		UsePreviousClose:  false,
		Symbols:           nil,
	}
}

// LoadConfig reads, parses and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read scan config %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse scan config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints, the granularity label, the strategy
// params against the provider's history limit and engine_version
// compatibility.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid scan config", err)
	}

	if c.RetryInterval < 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "retry_interval must not be negative, got %s", c.RetryInterval)
	}

	if _, err := provider.ParseGranularity(c.Granularity); err != nil {
		return err
	}

	if c.UsePreviousClose && c.Granularity != types.GranularityDaily {
		return errors.Newf(errors.ErrCodeInvalidGranularity, "use_previous_close needs %s bars, got %s", types.GranularityDaily, c.Granularity)
	}

	strat, err := strategy.NewDefaultRegistry().Create(c.Strategy, c.Params)
	if err != nil {
		return err
	}

	if limit, capped := provider.MaxHistoryBars(provider.ProviderType(c.Provider)); capped && strat.RequiredBars() > limit {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "%s needs %d bars but %s serves at most %d",
			strat.Name(), strat.RequiredBars(), c.Provider, limit)
	}

	return version.CheckConfigCompatibility(version.GetVersion(), c.EngineVersion)
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type: "string",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "argo-ma-scan-config"
	schema.Description = "Configuration schema for the moving average signal scan"
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

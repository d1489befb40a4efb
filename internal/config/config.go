// Package config loads the argo configuration file.
package config

import (
	"encoding/json"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio/commission_fee"
	"github.com/rxtech-lab/argo-sweep/internal/trading/broker"
	"github.com/rxtech-lab/argo-sweep/internal/trading/engine"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/internal/version"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DateLayout is the format of start_date and end_date.
const DateLayout = "2006-01-02"

// Environment variables that override the file.
const (
	EnvTelegramToken    = "TELEGRAM_TOKEN"
	EnvTelegramChatID   = "TELEGRAM_CHAT_ID"
	EnvPolygonAPIKey    = "POLYGON_API_KEY"
	EnvBinanceAPIKey    = "BINANCE_API_KEY"
	EnvBinanceSecretKey = "BINANCE_SECRET_KEY"
)

// MarketConfig selects the instruments and the historical window.
type MarketConfig struct {
	Symbols   []string `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols,description=Instrument universe; instrument ids index into this list" validate:"required,min=1,dive,required"`
	DataPath  string   `yaml:"data_path" json:"data_path" jsonschema:"title=Data file,description=Parquet or CSV file with daily bars" validate:"required"`
	StartDate string   `yaml:"start_date" json:"start_date" jsonschema:"title=Start date,default=2019-01-01" validate:"required,datetime=2006-01-02"`
	EndDate   string   `yaml:"end_date" json:"end_date,omitempty" jsonschema:"title=End date,description=Defaults to today" validate:"omitempty,datetime=2006-01-02"`
	TimeZone  string   `yaml:"timezone" json:"timezone,omitempty" jsonschema:"title=Time zone,description=IANA zone for the live cutoff and ledger timestamps,default=Local"`
}

// BacktestConfig configures the simulated account.
type BacktestConfig struct {
	InitialMoney     float64               `yaml:"initial_money" json:"initial_money" jsonschema:"title=Initial money,default=100000,minimum=0" validate:"gt=0"`
	CommissionBroker commission_fee.Broker `yaml:"commission_broker" json:"commission_broker" jsonschema:"title=Commission model,enum=interactive_broker,enum=zero_commission,default=zero_commission" validate:"oneof=interactive_broker zero_commission"`
	DecimalPrecision int32                 `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Quantity precision,default=8" validate:"gte=0,lte=12"`
}

// BrokerConfig selects the live gateway.
type BrokerConfig struct {
	Kind      broker.Kind          `yaml:"kind" json:"kind" jsonschema:"title=Broker,enum=paper,enum=binance,default=paper" validate:"oneof=paper binance"`
	PaperCash float64              `yaml:"paper_cash" json:"paper_cash,omitempty" jsonschema:"title=Paper cash,description=Starting cash of the paper account,default=100000" validate:"gte=0"`
	Binance   broker.BinanceConfig `yaml:"binance" json:"binance,omitempty" jsonschema:"title=Binance" validate:"-"`
}

// SweepConfig bounds a parameter sweep.
type SweepConfig struct {
	Workers int `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Simulations run at the same time,default=4" validate:"gt=0"`
}

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	Token  string `yaml:"token" json:"token,omitempty" jsonschema:"title=Bot token"`
	ChatID string `yaml:"chat_id" json:"chat_id,omitempty" jsonschema:"title=Chat id"`
}

// Config is the whole argo configuration.
type Config struct {
	Version       string             `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=argo release the file was written for"`
	LedgerPath    string             `yaml:"ledger_path" json:"ledger_path" jsonschema:"title=Ledger,default=tests.csv" validate:"required"`
	TradeLogPath  string             `yaml:"trade_log_path" json:"trade_log_path" jsonschema:"title=Trade log,default=trade_log.csv" validate:"required"`
	ResultsDir    string             `yaml:"results_dir" json:"results_dir" jsonschema:"title=Results directory,default=results" validate:"required"`
	PolygonAPIKey string             `yaml:"polygon_api_key" json:"polygon_api_key,omitempty" jsonschema:"title=Polygon API key"`
	Market        MarketConfig       `yaml:"market" json:"market"`
	Backtest      BacktestConfig     `yaml:"backtest" json:"backtest"`
	Strategy      types.ParameterSet `yaml:"strategy" json:"strategy"`
	Live          engine.LiveConfig  `yaml:"live" json:"live"`
	Broker        BrokerConfig       `yaml:"broker" json:"broker"`
	Sweep         SweepConfig        `yaml:"sweep" json:"sweep"`
	Telegram      TelegramConfig     `yaml:"telegram" json:"telegram"`
}

// Default returns the configuration used for every option the file omits.
func Default() Config {
	return Config{
		Version:       "",
		LedgerPath:    "tests.csv",
		TradeLogPath:  "trade_log.csv",
		ResultsDir:    "results",
		PolygonAPIKey: "",
		Market: MarketConfig{
			Symbols:   nil,
			DataPath:  "",
			StartDate: "2019-01-01",
			EndDate:   "",
			TimeZone:  "",
		},
		Backtest: BacktestConfig{
			InitialMoney:     100000,
			CommissionBroker: commission_fee.BrokerZero,
			DecimalPrecision: 8,
		},
		Strategy: types.DefaultParameterSet(),
		Live:     engine.DefaultLiveConfig(),
		Broker: BrokerConfig{
			Kind:      broker.KindPaper,
			PaperCash: 100000,
			Binance: broker.BinanceConfig{
				ApiKey:     "",
				SecretKey:  "",
				BaseURL:    "",
				Testnet:    false,
				QuoteAsset: "USDT",
			},
		},
		Sweep: SweepConfig{
			Workers: 4,
		},
		Telegram: TelegramConfig{
			Token:  "",
			ChatID: "",
		},
	}
}

// Load reads a .env file when present, then path over the defaults, then the
// environment overrides, and validates the result. An empty path loads the
// defaults only.
func Load(path string) (Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	config := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(content, &config); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Ambient returns the defaults with the .env file and the environment
// applied, without validation. Commands that only read the ledger or write
// files use it when no config file is given.
func Ambient() Config {
	_ = godotenv.Load()

	config := Default()
	config.applyEnv()

	return config
}

//nolint:funcorder // helper method used by Load and Ambient
func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvTelegramToken:    &c.Telegram.Token,
		EnvTelegramChatID:   &c.Telegram.ChatID,
		EnvPolygonAPIKey:    &c.PolygonAPIKey,
		EnvBinanceAPIKey:    &c.Broker.Binance.ApiKey,
		EnvBinanceSecretKey: &c.Broker.Binance.SecretKey,
	} {
		if value, ok := os.LookupEnv(env); ok && value != "" {
			*field = value
		}
	}
}

// Validate checks every section and the file's version against the binary.
func (c *Config) Validate() error {
	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Broker.Kind == broker.KindBinance {
		if err := c.Broker.Binance.Validate(); err != nil {
			return err
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	start, end, err := c.Window(time.Now())
	if err != nil {
		return err
	}

	if end.Before(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end date %s is before start date %s",
			end.Format(DateLayout), start.Format(DateLayout))
	}

	return nil
}

// Location returns the configured time zone, or time.Local when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Market.TimeZone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Market.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unknown time zone %q", c.Market.TimeZone)
	}

	return loc, nil
}

// Window returns the historical date range. An empty end date is now's date.
func (c Config) Window(now time.Time) (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.Market.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid start date %q", c.Market.StartDate)
	}

	if c.Market.EndDate == "" {
		return start, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	end, err := time.Parse(DateLayout, c.Market.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid end date %q", c.Market.EndDate)
	}

	return start, end, nil
}

// TelegramCredentials returns the bot credentials when both are set.
func (c Config) TelegramCredentials() optional.Option[TelegramConfig] {
	if c.Telegram.Token == "" || c.Telegram.ChatID == "" {
		return optional.None[TelegramConfig]()
	}

	return optional.Some(c.Telegram)
}

// overridable lists the keys ApplyOverrides accepts outside the strategy section.
var overridable = map[string]func(c *Config, value string) error{
	"initial_money": func(c *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		c.Backtest.InitialMoney = v

		return nil
	},
	"start_date": func(c *Config, value string) error {
		c.Market.StartDate = value

		return nil
	},
	"money": func(c *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		c.Backtest.InitialMoney = v

		return nil
	},
	"end_date": func(c *Config, value string) error {
		c.Market.EndDate = value

		return nil
	},
	"commission_broker": func(c *Config, value string) error {
		c.Backtest.CommissionBroker = commission_fee.Broker(value)

		return nil
	},
}

// ApplyOverrides sets options by key, as given on the command line with
// --set key=value. Strategy parameters use their yaml names. The result is
// validated.
func (c *Config) ApplyOverrides(overrides map[string]string) error {
	for key, value := range overrides {
		if apply, ok := overridable[key]; ok {
			if err := apply(c, value); err != nil {
				return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid value %q for %s", value, key)
			}

			continue
		}

		if err := setParameter(&c.Strategy, key, value); err != nil {
			return err
		}
	}

	return c.Validate()
}

// setParameter assigns value to the ParameterSet field tagged yaml:key.
func setParameter(params *types.ParameterSet, key string, value string) error {
	v := reflect.ValueOf(params).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if name != key {
			continue
		}

		field := v.Field(i)

		switch field.Kind() {
		case reflect.Float64:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s expects a number, got %q", key, value)
			}

			field.SetFloat(f)
		case reflect.Int:
			n, err := parseInt(value)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s expects an integer, got %q", key, value)
			}

			field.SetInt(n)
		default:
			return errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s cannot be overridden", key)
		}

		return nil
	}

	return errors.Newf(errors.ErrCodeUnknownParameter, "unknown parameter %q", key)
}

// parseInt accepts integral floats such as "10.0", which JSON encoders emit.
func parseInt(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		return n, nil
	}

	f, ferr := strconv.ParseFloat(value, 64)
	if ferr != nil || f != math.Trunc(f) {
		return 0, err
	}

	return int64(f), nil
}

// ParseOverrides turns key=value pairs into a map. Later pairs win.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimLeft(strings.TrimSpace(key), "-")

		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "invalid override %q, expected key=value", pair)
		}

		out[key] = strings.TrimSpace(value)
	}

	return out, nil
}

// GenerateSchema returns the JSON schema of Config.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:        "string",
					Description: "Go duration such as 10m or 600s",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "argo-config"
	schema.Description = "Configuration schema for argo"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON returns the indented JSON schema of Config.
func GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode config schema", err)
	}

	return string(schemaBytes), nil
}

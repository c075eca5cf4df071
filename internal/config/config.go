// internal/config/config.go
// Loader konfigurasi dari environment variables (lewat viper, opsional file DCA_CONFIG)

package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName   string
	AppEnv    string
	AppPort   string
	MCPPort   string
	LogLevel  string
	LogFormat string
	APIKey    string

	MySQL struct {
		DSN      string // DB_DSN menang kalau diisi
		Host     string
		Port     string
		DB       string
		User     string
		Password string
		MaxOpen  int
		MaxIdle  int
	}

	LLM   LLM
	Admin Admin

	Worker struct {
		Schedule    string
		Concurrency int
	}

	// Default skenario DCA untuk worker/CLI/HTTP kalau request tidak mengisi.
	DCA struct {
		HorizonMonths   int
		EconomicLimit   float64
		Phase           string
		CumulativeBasis string
	}
}

// LLM konfigurasi OpenAI untuk chooser tool di router MCP.
type LLM struct {
	APIKey  string
	APIBase string
	Model   string
}

// Admin kredensial login admin + secret JWT.
type Admin struct {
	User      string
	PassHash  string
	JWTSecret string
}

// Load membaca env (dan file config kalau DCA_CONFIG diisi).
func Load() *Config {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("DCA_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			Logger().WithError(err).WithField("file", file).Warn("config file not loaded")
		}
	}

	c := &Config{}
	c.AppName = v.GetString("APP_NAME")
	c.AppEnv = v.GetString("APP_ENV")
	c.AppPort = v.GetString("APP_PORT")
	c.MCPPort = v.GetString("MCP_PORT")
	c.LogLevel = v.GetString("LOG_LEVEL")
	c.LogFormat = v.GetString("LOG_FORMAT")
	c.APIKey = v.GetString("API_KEY")

	c.MySQL.DSN = v.GetString("DB_DSN")
	c.MySQL.Host = v.GetString("MYSQL_HOST")
	c.MySQL.Port = v.GetString("MYSQL_PORT")
	c.MySQL.DB = v.GetString("MYSQL_DB")
	c.MySQL.User = v.GetString("MYSQL_USER")
	c.MySQL.Password = v.GetString("MYSQL_PASSWORD")
	c.MySQL.MaxOpen = v.GetInt("MYSQL_MAX_OPEN_CONNS")
	c.MySQL.MaxIdle = v.GetInt("MYSQL_MAX_IDLE_CONNS")

	// LLM / OpenAI
	c.LLM.APIKey = v.GetString("OPENAI_API_KEY")
	c.LLM.APIBase = v.GetString("OPENAI_BASE_URL")
	c.LLM.Model = v.GetString("OPENAI_MODEL")

	c.Admin.User = v.GetString("ADMIN_USER")
	c.Admin.PassHash = v.GetString("ADMIN_PASS_HASH")
	c.Admin.JWTSecret = v.GetString("ADMIN_JWT_SECRET")

	c.Worker.Schedule = v.GetString("WORKER_SCHEDULE")
	c.Worker.Concurrency = v.GetInt("WORKER_CONCURRENCY")

	c.DCA.HorizonMonths = v.GetInt("DCA_DEFAULT_HORIZON_MONTHS")
	c.DCA.EconomicLimit = v.GetFloat64("DCA_DEFAULT_ECONOMIC_LIMIT")
	c.DCA.Phase = v.GetString("DCA_DEFAULT_PHASE")
	c.DCA.CumulativeBasis = v.GetString("DCA_CUMULATIVE_BASIS")

	if c.LLM.APIKey == "" {
		Logger().Warn("OPENAI_API_KEY is not set, LLM tool routing disabled")
	}
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "dca-reserves")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("MCP_PORT", "8090")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("API_KEY", "")
	v.SetDefault("DCA_CONFIG", "")

	v.SetDefault("DB_DSN", "")
	v.SetDefault("MYSQL_HOST", "") // kosong + DB_DSN kosong = tanpa DB
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "dca")
	v.SetDefault("MYSQL_USER", "root")
	v.SetDefault("MYSQL_PASSWORD", "")
	v.SetDefault("MYSQL_MAX_OPEN_CONNS", 10)
	v.SetDefault("MYSQL_MAX_IDLE_CONNS", 5)

	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	v.SetDefault("ADMIN_USER", "")
	v.SetDefault("ADMIN_PASS_HASH", "")
	v.SetDefault("ADMIN_JWT_SECRET", "")

	v.SetDefault("WORKER_SCHEDULE", "@daily")
	v.SetDefault("WORKER_CONCURRENCY", 4)

	v.SetDefault("DCA_DEFAULT_HORIZON_MONTHS", 120)
	v.SetDefault("DCA_DEFAULT_ECONOMIC_LIMIT", 50.0)
	v.SetDefault("DCA_DEFAULT_PHASE", "oil")
	v.SetDefault("DCA_CUMULATIVE_BASIS", "recorded")
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CARDIQ"

// FlagKeys maps command-line flag names to configuration keys. Flags listed
// here and present in the flag set passed to Load override every other source
// once they are set by the user.
var FlagKeys = map[string]string{
	"db":        "database.path",
	"log-level": "log.level",
	"model":     "generation.model",
	"uploader":  "documents.uploader",
}

// Load builds a Config from, in increasing precedence: defaults, the optional
// config file (JSON, YAML or TOML by extension), environment variables and
// the flags of fs. fs may be nil.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// .env files of the mobile app used these names.
	_ = v.BindEnv("generation.api_key", EnvPrefix+"_GENERATION_API_KEY", "API_KEY")
	_ = v.BindEnv("documents.pdfco_api_key", EnvPrefix+"_DOCUMENTS_PDFCO_API_KEY", "PDFCO_API_KEY")

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	var d Config
	d.LoadDefaults()

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
	v.SetDefault("generation.max_retries", d.Generation.MaxRetries)

	v.SetDefault("documents.uploader", d.Documents.Uploader)
	v.SetDefault("documents.pdfco_base_url", d.Documents.PDFcoBaseURL)
	v.SetDefault("documents.pdfco_api_key", "")
	v.SetDefault("documents.timeout", d.Documents.Timeout)
	v.SetDefault("documents.s3.bucket", "")
	v.SetDefault("documents.s3.region", d.Documents.S3.Region)
	v.SetDefault("documents.s3.endpoint", "")
	v.SetDefault("documents.s3.access_key", "")
	v.SetDefault("documents.s3.secret_key", "")
	v.SetDefault("documents.s3.presign_expiry", d.Documents.S3.PresignExpiry)

	v.SetDefault("stats.utc_offset", d.Stats.UTCOffset)
	v.SetDefault("stats.week_start", d.Stats.WeekStart)

	v.SetDefault("session.token_ttl", d.Session.TokenTTL)
}

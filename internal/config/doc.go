// Package config loads runtime configuration for the CardIQ CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config (JSON, YAML or TOML).
//  3. Environment variables: CARDIQ_ followed by the upper-cased key with
//     dots replaced by underscores, e.g. CARDIQ_GENERATION_MODEL. The API
//     keys are also read from API_KEY and PDFCO_API_KEY.
//  4. Command-line flags listed in FlagKeys.
//
// # File schema
//
// Durations are strings understood by time.ParseDuration:
//
//	{
//	  "database": {"path": "cardIQ.db"},
//	  "log": {"level": "info", "format": "text"},
//	  "generation": {"base_url": "https://api.openai.com/v1", "model": "gpt-4o-mini",
//	                 "timeout": "60s", "max_retries": 2},
//	  "documents": {"uploader": "pdfco", "pdfco_base_url": "https://api.pdf.co/v1",
//	                "timeout": "60s",
//	                "s3": {"bucket": "", "region": "us-east-1", "endpoint": "",
//	                       "presign_expiry": "15m"}},
//	  "stats": {"utc_offset": "0s", "week_start": "monday"},
//	  "session": {"token_ttl": "720h"}
//	}
package config

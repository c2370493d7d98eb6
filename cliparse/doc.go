// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Nothing is required. Without an API key every model call fails into the
fixed fallbacks; without SESSION_SALT a development salt is used and
UsingDevSalt is set so the caller can warn.

# CLI Flags and Environment Variables

	-p                  PORT                 Server port (3318)
	-provider           MODEL_PROVIDER       gemini or openai (gemini)
	-model              MODEL_NAME           Model name (gemini-2.5-flash)
	-model-url          MODEL_BASE_URL       Provider base URL
	-model-timeout      MODEL_TIMEOUT        Transport timeout (60s)
	-api-key            API_KEY              Model API key (GEMINI_API_KEY also read)
	-session-salt       SESSION_SALT         Session token HMAC secret
	-seed               SEED_PATH            Seed YAML (embedded default)
	-redis              REDIS_URL            Sentiment cache in Redis
	-sentiment-ttl      SENTIMENT_CACHE_TTL  Cache TTL (0 keeps until cleared)
	-log-level          LOG_LEVEL            debug, info, warn, error
	-max-conversations  MAX_CONVERSATIONS    Live chat conversations (1000)
	-env-file                                Dotenv file (.env)

CLI flags take precedence over environment variables. The dotenv file is
loaded with godotenv and never overrides variables that are already set; a
missing file is ignored.
*/
package cliparse

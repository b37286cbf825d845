// Package config loads glance settings with viper.
//
// Values come, in order of precedence, from command line flags, environment
// variables with the GLANCE_ prefix, an optional glance.yaml file and
// built-in defaults. GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are also read
// without the prefix. Nested keys map to environment variables by replacing
// dots with underscores, so storage.redis.addr is GLANCE_STORAGE_REDIS_ADDR.
//
// The config file is looked up in the working directory,
// $XDG_CONFIG_HOME/glance and $HOME/.glance. A missing file is not an error.
package config

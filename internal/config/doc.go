// Package config loads process-level configuration for air-traffic-control:
// the sqlite database path, the HTTP listen address, and the default
// session settings new sessions inherit absent an explicit patch.
//
// Load merges, in increasing priority, the global config file
// ($XDG_CONFIG_HOME/air_traffic_control/config.json[c]), a project-local
// config file (<directory>/.atc/config.json[c]), and environment variables
// (OPENAI_BASE_URL, OPENAI_API_KEY, ATC_LISTEN_ADDR). JSONC files have
// their // and /* */ comments stripped before parsing.
package config

// Package config loads runtime configuration for the taskkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the task API
//	-d string   path to the local session database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:5000",
//	  "session_db_path": "session.db",
//	  "request_timeout": "15s",
//	  "log_level": "info"
//	}
package config

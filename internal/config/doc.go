// Package config handles configuration loading for the xlr panel clients.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Missing files fall back to defaults.
//
// # Configuration File
//
// Default locations (in order):
//   - $XLR_CONFIG
//   - $XDG_CONFIG_HOME/xlr/panel.yaml
//   - ~/.config/xlr/panel.yaml
//
// A file ending in .toml is decoded as TOML, anything else as YAML.
//
// # Example
//
//	server:
//	  url: "http://192.168.1.40:5000"
//	session:
//	  path: "${HOME}/.config/xlr/session.json"
//	polling:
//	  interval: "2s"
//	login:
//	  error_flash: "400ms"
//	http:
//	  timeout: "5s"
//	palette: ["#ef4444", "#3b82f6", "#000000"]
//	journal:
//	  path: "${HOME}/.local/share/xlr/journal.db"
//	logging:
//	  level: "info"
//	  format: "text"
//
// # Environment
//
// ${VAR} references are expanded before parsing; unset variables become
// empty strings. XLR_SERVER overrides server.url after loading.
package config

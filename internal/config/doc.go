// Package config loads process configuration for the viewport tools.
//
// Configuration is read from viewport.yaml (or .json/.toml) in the working
// directory, or from an explicit path, and every key can be overridden by
// an environment variable with the VIEWPORT_ prefix:
//
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//	  namespace: viewport
//	tracing:
//	  enabled: true
//	  exporter: stdout
//	inspector:
//	  host: localhost
//	  port: 7070
//	  push_interval: 1s
//
// VIEWPORT_INSPECTOR_PORT=9000 overrides inspector.port.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Inspector:", cfg.Inspector.Addr())
package config

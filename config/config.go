// Package config is the flag-based configuration for cmd/agentdialogued,
// following cmd/proxysip/main.go's flag.String/flag.Bool style. The
// dialogue core itself takes no configuration — it is constructed in code.
package config

import "flag"

// Config holds the demo CLI's command-line options.
type Config struct {
	Role          string // "initiator" or "responder"
	Transport     string // "loopback" or "ws"
	ListenAddr    string // ws: address the responder listens on
	HTTPAddr      string // address the /metrics server listens on
	Debug         bool
}

// Parse builds a Config from the process's command-line arguments.
func Parse() *Config {
	c := &Config{}
	flag.StringVar(&c.Role, "role", "initiator", "initiator or responder")
	flag.StringVar(&c.Transport, "transport", "loopback", "loopback or ws")
	flag.StringVar(&c.ListenAddr, "listen", "127.0.0.1:4444", "ws: address the responder listens on")
	flag.StringVar(&c.HTTPAddr, "http", ":8080", "address the /metrics server listens on")
	flag.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	flag.Parse()
	return c
}

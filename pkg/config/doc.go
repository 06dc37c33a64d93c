// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with github.com/caarlos0/env tags. A .env
// file in the working directory is read once (github.com/joho/godotenv) and
// never overrides variables already present in the environment.
//
//	type ServerConfig struct {
//		Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
//		ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Every config type is parsed once and cached, so independent packages can
// call Load for the same struct without re-reading the environment.
//
// A struct whose pointer implements Validator gets its Validate method called
// after parsing. Use it for rules env tags cannot express, such as settings
// that are only required for one mail provider.
package config

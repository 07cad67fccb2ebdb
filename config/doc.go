// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Environment variables override a handful of deployment settings after the
// file is read.
package config

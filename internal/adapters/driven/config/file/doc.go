// Package file loads the seeder configuration from a TOML file with
// environment variable overrides.
//
// Resolution order, lowest to highest precedence: built-in defaults,
// the TOML file, DB_* environment variables. Command-line flags are
// applied on top by the CLI layer.
//
// # Import Rules
//
//   - CAN import domain types
//   - CANNOT import services, other adapters, or driving code
package file

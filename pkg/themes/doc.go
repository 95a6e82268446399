// Package themes is the built-in theme registry.
//
// The catalog is embedded as YAML and loaded once. Every theme is also
// registered with a go-theme registry as a manifest whose tokens are the
// theme's colours, so renderers that speak go-theme can consume it
// directly through [Provider].
//
// Unknown theme ids are never an error: [Resolve] falls back to the
// default theme.
package themes

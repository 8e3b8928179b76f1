// Package config loads the dashboard configuration from a YAML file, an
// optional .env file and SPACEX_DASH_* environment overrides.
//
// Config fields:
//   - Server.Addr:           listen address for the dashboard (default ":8050")
//   - Server.AllowedOrigins: CORS origins for the JSON API (default ["*"])
//   - Data.Source:           CSV path, http(s) URL or sqlite://<path>
//   - Data.Archive:          sqlite snapshot path; also the fallback when Source fails
//   - Data.Watch:            reload when a local Source file changes
//   - Data.FetchTimeout:     timeout for remote Source downloads (default 30s)
//   - Data.CacheTTL:         how long a fetched remote Source is reused (default 10m)
//   - Engine.SiteMatch:      "contains" or "exact"
//   - Engine.ScatterEmpty:   "series" or "placeholder"
//   - Dashboard.SliderStep:  payload slider step in kg (default 1000)
//   - Log.Level:             zap level name (default "info")
//
// Load(path) applies defaults before unmarshalling, then environment
// overrides, then validates.
package config

// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Filter panel, SQLite catalog cache, Prometheus metrics endpoint
// 0.2.0 - Orbit camera with mouse drag, animated planet orbits, --snapshot-path
// 0.1.0 - Initial release: catalog grouping, star map, headless --summary

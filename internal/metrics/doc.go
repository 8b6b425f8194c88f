// Package metrics exposes split progress as Prometheus metrics. Runs are
// short lived, so the registry is exported to a textfile rather than served.
package metrics

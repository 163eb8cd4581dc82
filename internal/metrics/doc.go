// Package metrics defines the Prometheus instrumentation for the graphics
// engine. Metrics are registered with the default registry via promauto;
// tools expose them by mounting promhttp.Handler().
package metrics

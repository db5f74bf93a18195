/*
Package observability exposes adapter activity as Prometheus metrics.

Metrics are fed by domain.LifecycleHooks, so any adapter built with
tabula.WithLifecycleHooks(m.Hooks()) is counted without further wiring.
*/
package observability

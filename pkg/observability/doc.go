/*
Package observability provides tools for monitoring the FlowForm engine.

It turns the engine's lifecycle hooks into Prometheus metrics and structured
log lines, covering block traversal, form completions, and follow-up question
generation latency.
*/
package observability

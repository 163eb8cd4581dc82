// Command thumbgen generates thumbnail, preview, and avatar attribute files
// for local media using the graphics engine. It exists for operating the
// engine outside a client session: batch pre-generation, backend comparison,
// and load inspection via the optional Prometheus listener.
package main

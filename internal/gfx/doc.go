// Package gfx implements the asynchronous graphics job engine that produces
// thumbnail, preview, and avatar bitmap attributes for files handled by the
// storage client.
//
// The Engine decouples expensive bitmap decode/resize/encode work from the
// client's event loop. A single worker goroutine drains a FIFO request queue,
// invokes the active Provider backend once per requested dimension, and pushes
// finished jobs to a response queue that the owning loop drains on its own
// schedule. The backend is held in a ProviderSlot and can be replaced at
// runtime without corrupting in-flight work: every job runs against exactly
// one snapshot of the slot, captured when the job is dequeued.
package gfx

// Package memory wires the Go soft memory limit to the container memory
// limit. Bitmap work allocates in large bursts, and ffmpeg subprocesses
// need headroom outside the Go heap, so only a fraction of the container
// limit is given to the runtime.
package memory

// Package vips implements the graphics backend on top of libvips via
// govips. It shrinks at decode time and reuses one loaded image across a
// job's dimension list, which makes it the backend of choice when libvips
// is installed and memory is tight. Call Init once before constructing a
// Provider; govips cannot be restarted within one process.
package vips

// Package logging provides leveled, printf-style logging for the engine and
// its tools. The level comes from the DEBUG and LOG_LEVEL environment
// variables and can be overridden programmatically, which tests use to
// silence or capture output.
package logging

// Package language interprets the language segment of caption file names.
//
// Intake names carry whatever code the downloader wrote (for example "en",
// "pt-BR", or "en-orig"). The catalog always stores that raw string; this
// package only classifies it for diagnostics and display.
package language

package logger

import (
	"fmt"
	"strings"
)

// ANSI escape codes. Terminals that don't support them just show the raw text,
// which is still readable.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

func line(color, symbol, tag, msg string) {
	fmt.Printf("%s%s%s %s[%s]%s %s\n", color, symbol, reset, bold, tag, reset, msg)
}

// Info logs an informational message with a tag.
func Info(tag, msg string) {
	line(blue, "•", tag, msg)
}

// Success logs a success message with a tag.
func Success(tag, msg string) {
	line(green, "✓", tag, msg)
}

// Warn logs a warning message with a tag.
func Warn(tag, msg string) {
	line(yellow, "!", tag, msg)
}

// Error logs an error message with a tag.
func Error(tag, msg string) {
	line(red, "✗", tag, msg)
}

// Section prints a visual divider with a title.
func Section(title string) {
	fmt.Printf("\n%s%s── %s %s%s\n", bold, cyan, title, strings.Repeat("─", 40), reset)
}

// Stats prints a key/value pair, indented under the current section.
func Stats(key string, value interface{}) {
	fmt.Printf("  %s%s:%s %v\n", dim, key, reset, value)
}

// Banner prints the startup banner with the given version string.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%s", bold, cyan)
	fmt.Println("  ┌─────────────────────────────┐")
	fmt.Printf("  │  albion-arb  %-14s │\n", version)
	fmt.Println("  └─────────────────────────────┘")
	fmt.Print(reset)
}

// Server logs the address the HTTP server is listening on.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}

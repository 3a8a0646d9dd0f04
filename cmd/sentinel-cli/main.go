// Package main provides the sentinel command-line client. It runs assessments and
// briefings against the configured generative backend without the HTTP server.
package main

func main() {
	Execute()
}

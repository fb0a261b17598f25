// Package main is the entry point for the CrUX report dashboard.
//
// Usage:
//
//	crux                      interactive dashboard
//	crux report [urls...]     print a report table and exit
//	crux version              print version information
package main

func main() {
	Execute()
}

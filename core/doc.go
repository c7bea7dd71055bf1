// Package core holds the logging setup shared by the API server and the CLI.
package core

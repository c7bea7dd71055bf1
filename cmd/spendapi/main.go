// Command spendapi serves the federal spending API and manages its data.
package main

import (
	"os"

	"github.com/apex/log"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		log.WithError(err).Error("spendapi failed")
		os.Exit(1)
	}
}

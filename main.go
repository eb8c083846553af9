package main

import (
	"log"

	"github.com/ecotrack/binsight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"

	"github.com/spigell/job-ranker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

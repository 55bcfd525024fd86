package main

import (
	"log"

	"github.com/spigell/assessment-finder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

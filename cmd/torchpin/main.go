package main

import (
	"log"

	"github.com/NVIDIA/torchpin/pkg/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"github.com/lucasgandara/govpg/examples"
)

func main() {
	examples.VPGCartPole()
}

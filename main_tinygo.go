//go:build tinygo

package main

import (
	"tally/app"
	"tally/hal"
)

func main() {
	app.Run(hal.New())
}

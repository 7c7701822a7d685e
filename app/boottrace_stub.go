//go:build !tinygo || !bootdebug

package app

import "tally/hal"

func bootTrace(h hal.HAL, msg string) {
	_ = h
	_ = msg
}

//go:build stm32f103

package main

// Build-time selection, e.g.
//
//	tinygo flash -target bluepill -ldflags "-X main.mode=blink" ./targets/bluepill
var (
	// mode names the application to run (see app.Names)
	mode = "hello"

	// debug set to "1" routes core debug lines to USART1
	debug = ""
)

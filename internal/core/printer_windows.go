//go:build windows

package core

import (
	"os"

	"golang.org/x/sys/windows"
)

func init() {
	// ANSI sequences are only interpreted once virtual terminal processing
	// is switched on for the console handle.
	for _, f := range []*os.File{os.Stderr, os.Stdout} {
		_ = enableVT(windows.Handle(f.Fd()))
	}
}

func enableVT(handle windows.Handle) error {
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return err
	}
	return windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}

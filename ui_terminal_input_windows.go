//go:build windows

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// startInput sets the console to raw mode and reads it in a goroutine.
// Console reads cannot be interrupted, so stopInput does not wait for the
// reader once the console has been restored.
func (h *TerminalHost) startInput() error {
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 16)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			now := time.Now()
			for _, b := range buf[:n] {
				if h.HandleByte(b, now) {
					return
				}
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
	return nil
}

func (h *TerminalHost) stopInput() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

package game

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("game: clipboard not available on this system")
	}
	if text == "" {
		text = " "
	}
	return clipboard.WriteAll(text)
}

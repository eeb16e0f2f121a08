// Package opener hands URIs to the desktop's default handler.
package opener

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

type Opener interface {
	Open(uri string) error
}

// Browser opens URIs with the system handler (open, xdg-open or
// FileProtocolHandler depending on the platform).
type Browser struct {
	openURL func(string) error
}

func NewBrowser() *Browser {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Browser{openURL: browser.OpenURL}
}

func (b *Browser) Open(uri string) error {
	if uri == "" {
		return fmt.Errorf("empty uri")
	}
	return b.openURL(uri)
}

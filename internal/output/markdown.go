package output

import "github.com/charmbracelet/glamour"

// defaultWrap is the word-wrap column used when no table width is set.
const defaultWrap = 80

// RenderMarkdown renders md for the terminal, styled for the detected
// background and wrapped at the configured width.
func RenderMarkdown(md string) (string, error) {
	wrap := maxWidth
	if wrap == 0 {
		wrap = defaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// BannerInfo holds the identity fields displayed alongside the logo.
type BannerInfo struct {
	Version string
	SHA     string
	Branch  string
	Date    string
}

// logoArt is the SoundCheck equalizer mark. Plain text, so the banner
// renders the same everywhere the box sections do.
const logoArt = `        ██
        ██      ██
    ██  ██      ██
    ██  ██  ██  ██
██  ██  ██  ██  ██
██  ██  ██  ██  ██
██  ██  ██  ██  ██`

// Banner prints the SoundCheck logo with version info beside it.
func Banner(w io.Writer, info BannerInfo, color bool) {
	artLines := strings.Split(logoArt, "\n")

	// Pad every art line to the same width so the text column lines up.
	width := 0
	for _, line := range artLines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}
	for i, line := range artLines {
		if n := utf8.RuneCountInString(line); n < width {
			line += strings.Repeat(" ", width-n)
		}
		artLines[i] = paint(colorCyan, line, color)
	}

	printBanner(w, artLines, buildIdentityText(info, color))
}

// buildIdentityText assembles the identity lines shown beside the logo.
func buildIdentityText(info BannerInfo, color bool) []string {
	items := []string{paint(colorBoldCyan, "SoundCheck", color)}
	if info.Version != "" {
		items = append(items, paint(colorCyan, info.Version, color))
	}
	switch {
	case info.SHA != "" && info.Branch != "":
		items = append(items, paint(colorCyan, info.SHA, color)+" · "+paint(colorCyan, info.Branch, color))
	case info.SHA != "":
		items = append(items, paint(colorCyan, info.SHA, color))
	}
	if info.Date != "" {
		items = append(items, paint(colorCyan, info.Date, color))
	}
	return items
}

// printBanner composites art lines with identity text, vertically centered.
func printBanner(w io.Writer, artLines, textItems []string) {
	textLines := make([]string, len(artLines))
	startLine := (len(artLines) - len(textItems)) / 2
	for i, item := range textItems {
		idx := startLine + i
		if idx >= 0 && idx < len(textLines) {
			textLines[idx] = item
		}
	}

	fmt.Fprintln(w)
	for i, artLine := range artLines {
		if textLines[i] != "" {
			fmt.Fprintf(w, "%s   %s\n", artLine, textLines[i])
		} else {
			fmt.Fprintln(w, artLine)
		}
	}
	fmt.Fprintln(w)
}

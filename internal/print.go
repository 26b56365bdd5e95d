package internal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	tt "github.com/ecmalabs/espatch/internal/types"
)

var (
	okStyle      = color.New(color.FgGreen, color.Bold)
	nameStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	countStyle   = color.New(color.FgBlue, color.Bold)
	bindingStyle = color.New(color.FgMagenta)
)

// FormatChanges renders a per-file summary of applied transforms.
func FormatChanges(changes []tt.Change) string {
	var builder strings.Builder
	for _, change := range changes {
		builder.WriteString(formatChangeHeader(change))
		if change.InsertedBinding != "" {
			builder.WriteString(bindingStyle.Sprintf("     inserted import binding %q\n", change.InsertedBinding))
		}
	}
	return builder.String()
}

func formatChangeHeader(change tt.Change) string {
	sites := "site"
	if change.Sites != 1 {
		sites = "sites"
	}
	return okStyle.Sprint("rewrote: ") + nameStyle.Sprint(change.Transform) + "\n" +
		countStyle.Sprint(" --> ") + fileStyle.Sprint(change.Filename) +
		fmt.Sprintf(" (%d %s)\n", change.Sites, sites)
}

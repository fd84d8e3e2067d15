package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Banner is printed before a download starts
const Banner = `
  ┌┬┐┬ ┬┌─┐┌┬┐┌─┐┌┬┐┬
   │ ├─┤├┤ │││├┤  │││
   ┴ ┴ ┴└─┘┴ ┴└─┘─┴┘┴─┘  shopify theme downloader
`

// Output streams. Progress goes to Out, failures to Err.
var (
	Out io.Writer = color.Output
	Err io.Writer = color.Error
)

// Color functions for terminal output
var (
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// SetNoColor turns coloring off or back on for every writer
func SetNoColor(disabled bool) {
	color.NoColor = disabled
}

// PrintBanner prints the banner
func PrintBanner() {
	fmt.Fprint(Out, Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Err, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Err, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Out, Green(msg))
}

// PrintInfo prints a labelled value
func PrintInfo(label string, value string) {
	fmt.Fprintf(Out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Out, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Out, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Out, Magenta(msg))
}

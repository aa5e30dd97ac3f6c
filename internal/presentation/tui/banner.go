package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the FlowForm ASCII banner with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	lines := []string{
		"  ______ _                ______",
		" |  ____| |              |  ____|",
		" | |__  | | _____      __| |__ ___  _ __ _ __ ___",
		" |  __| | |/ _ \\ \\ /\\ / /|  __/ _ \\| '__| '_ ` _ \\",
		" | |    | | (_) \\ V  V / | | | (_) | |  | | | | | |",
		" |_|    |_|\\___/ \\_/\\_/  |_|  \\___/|_|  |_| |_| |_|",
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println(termenv.String("  v" + version).Foreground(p.Color("#94a3b8")))
	fmt.Println()
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// printJSON writes v indented to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rule(width int) {
	fmt.Println(strings.Repeat("─", width))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

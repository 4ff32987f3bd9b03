package main

import (
	"os"
	"strings"

	"timepick-cli/internal/cli"
)

// splitAssignment recognises the "<field-id>=<time>" shortcut.
func splitAssignment(s string) (field, value string, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return "", "", false
	}
	field, value, ok = strings.Cut(s, "=")
	if !ok || strings.TrimSpace(field) == "" || strings.TrimSpace(value) == "" {
		return "", "", false
	}
	return field, value, true
}

// rewriteSelectShortcutArgs turns `timepick <field-id>=<time>` into
// `timepick select <field-id> <time>`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing.
func rewriteSelectShortcutArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--config":    true,
		"--format":    true,
		"--log-level": true,
		"--log-file":  true,
	}

	rewrite := func(i int) []string {
		field, value, ok := splitAssignment(argv[i])
		if !ok {
			return argv
		}
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "select", field, value)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		// First positional token.
		return rewrite(i)
	}
	return argv
}

func main() {
	os.Args = rewriteSelectShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

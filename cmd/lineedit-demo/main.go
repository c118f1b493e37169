// Command lineedit-demo is a minimal interactive REPL exercising history,
// completion, hints, and colorization, in the spirit of the teacher's own
// prompt/_example/*/main.go programs.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goterm/lineedit"
)

var commands = []string{"help", "history", "exit", "echo"}

func completer(current string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, current) {
			out = append(out, c)
		}
	}
	return out
}

func hinter(current string) string {
	for _, c := range commands {
		if len(current) > 0 && strings.HasPrefix(c, current) && c != current {
			return c[len(current):]
		}
	}
	return ""
}

func colorize(text string, w *lineedit.StyleWriter) {
	if strings.HasPrefix(text, "echo") {
		for i := range []rune(text[:4]) {
			w.Set(i, lineedit.Style{Bold: true, Fg: lineedit.Indexed(lineedit.Cyan)})
		}
	}
}

func main() {
	r := lineedit.NewReader()
	r.SetCompletion(completer)
	r.SetHint(hinter)
	r.SetColorization(colorize)

	if f, err := os.Open(".lineedit_history"); err == nil {
		_ = r.LoadHistory(f)
		f.Close()
	}

	for {
		line, err := r.GetLine("demo> ")
		switch {
		case errors.Is(err, lineedit.ErrEndOfFile):
			fmt.Println()
			saveHistory(r)
			return
		case errors.Is(err, lineedit.ErrInterrupted):
			fmt.Println("^C")
			continue
		case err != nil:
			fmt.Fprintln(os.Stderr, "error:", err)
			saveHistory(r)
			return
		}

		switch strings.TrimSpace(line) {
		case "exit":
			saveHistory(r)
			return
		case "help":
			fmt.Println("commands:", strings.Join(commands, ", "))
		case "history":
			var sb strings.Builder
			_ = r.SaveHistory(&sb)
			fmt.Print(sb.String())
		default:
			fmt.Println(line)
		}
	}
}

func saveHistory(r *lineedit.Reader) {
	f, err := os.Create(".lineedit_history")
	if err != nil {
		return
	}
	defer f.Close()
	_ = r.SaveHistory(f)
}

package cmd

import (
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"github.com/Tiliavir/trivial-journal/internal/repl"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

// promptPicker chooses journals with arrow-key menus.
type promptPicker struct{}

func (promptPicker) Pick(journals []string) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ . | bold }}",
		Inactive: "   {{ . }}",
		Selected: "{{ . | bold }}",
	}
	searcher := func(input string, index int) bool {
		return strings.HasPrefix(strings.ToLower(journals[index]), strings.ToLower(strings.TrimSpace(input)))
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Select a journal",
		Items:     journals,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}
	_, name, err := prompt.Run()
	return name, err
}

func (promptPicker) NewName() (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "{{ . | bold }}: ",
	}
	prompt := promptui.Prompt{
		Label:     "Name of your new journal",
		Templates: templates,
		Validate:  storage.ValidateName,
	}
	return prompt.Run()
}

// interactive reports whether stdin and stdout are both terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// newPicker returns menus on a terminal and plain line prompts otherwise.
func newPicker() repl.Picker {
	if interactive() {
		return promptPicker{}
	}
	return repl.NewLinePicker(os.Stdin, os.Stdout)
}

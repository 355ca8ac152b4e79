package cli

import (
	"fmt"
	"text/template"
)

// render executes a display template against the command's IO.
func (c *Cli) render(tmpl string, data any) error {
	parsed, err := template.New("output").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if err := parsed.Execute(c.io, data); err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	return nil
}

// promptField reads one value, keeping the current one on empty input.
// The current value is shown in the prompt when set.
func (c *Cli) promptField(label string, value *string) error {
	prompt := label + ": "
	if *value != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, *value)
	}

	input, err := c.io.ReadInput(prompt)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", label, err)
	}
	if input != "" {
		*value = input
	}
	return nil
}

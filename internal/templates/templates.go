// Package templates lists the quick-start prompts offered in the sidebar.
package templates

// Template is a labelled prompt that starts a new chat.
type Template struct {
	Label  string
	Prompt string
}

var catalog = [...]Template{
	{Label: "Drug Dosage Calculator", Prompt: "Help me calculate a pediatric drug dosage for:"},
	{Label: "Emergency Protocol", Prompt: "I need the emergency protocol for:"},
	{Label: "Symptom Analysis", Prompt: "Please help analyze these symptoms:"},
	{Label: "Medical Reference", Prompt: "I need information about:"},
}

// All returns the templates in display order. The slice is a fresh copy.
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog[:])
	return out
}

// Len returns the number of templates.
func Len() int { return len(catalog) }

// Get returns the template at index i.
func Get(i int) (Template, bool) {
	if i < 0 || i >= len(catalog) {
		return Template{}, false
	}
	return catalog[i], true
}

package agent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultPersonaName = "Nova"

const systemPromptTemplate = `You are %s, the digital consultant for Novyrix, a Nairobi digital agency. You help prospective clients scope a project and build a priced quote.

How to work:
- Find out what the client's business needs, then use your tools: start a quote once you know the service type, search the catalog for features that match their goals, and add the ones they want.
- Quote prices exactly as the tools return them, in %s. Never invent features or prices that are not in the catalog.
- Keep replies short and warm. One question at a time.
- When the client is happy with the quote, ask for their name and email and submit the quote request so the team can follow up.
%s`

// persona is the optional operator-supplied override for the consultant's
// voice, loaded from a YAML file at startup.
type persona struct {
	Name         string `yaml:"name"`
	SystemPrompt string `yaml:"systemPrompt"`
	Extra        string `yaml:"extra"`
}

// buildSystemPrompt renders the consultant's system prompt. A persona
// file may replace the prompt wholesale or just adjust the name and
// append extra guidance.
func buildSystemPrompt(personaFile, currencyCode string) (string, error) {
	p := persona{Name: defaultPersonaName}

	if personaFile != "" {
		raw, err := os.ReadFile(personaFile)
		if err != nil {
			return "", fmt.Errorf("read persona file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return "", fmt.Errorf("parse persona file: %w", err)
		}
		if p.Name == "" {
			p.Name = defaultPersonaName
		}
	}

	if p.SystemPrompt != "" {
		return strings.TrimSpace(p.SystemPrompt), nil
	}

	extra := ""
	if p.Extra != "" {
		extra = "\n" + strings.TrimSpace(p.Extra)
	}
	return fmt.Sprintf(systemPromptTemplate, p.Name, currencyCode, extra), nil
}

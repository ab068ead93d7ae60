// Package mock provides a scripted LLM client for testing and local
// development without API credentials.
package mock

import (
	"context"
	"strings"
)

// Client implements llm.Client with scripted responses. Responses are
// matched by substring against the prompt, most recently registered
// first so tests can override a fixture's rule; Default is returned
// when nothing matches.
type Client struct {
	Err     error
	Default string
	rules   []rule

	// Prompts records every prompt received, for assertions.
	Prompts []string
}

type rule struct {
	substr   string
	response string
}

// New creates a mock client with an empty default response.
func New() *Client {
	return &Client{}
}

// Provider returns the provider name.
func (c *Client) Provider() string { return "mock" }

// Respond registers a scripted response for prompts containing substr.
func (c *Client) Respond(substr, response string) *Client {
	c.rules = append(c.rules, rule{substr: substr, response: response})
	return c
}

// Generate records the prompt and returns the newest matching scripted
// response.
func (c *Client) Generate(_ context.Context, prompt string) (string, error) {
	c.Prompts = append(c.Prompts, prompt)
	if c.Err != nil {
		return "", c.Err
	}
	for i := len(c.rules) - 1; i >= 0; i-- {
		if strings.Contains(prompt, c.rules[i].substr) {
			return c.rules[i].response, nil
		}
	}
	return c.Default, nil
}

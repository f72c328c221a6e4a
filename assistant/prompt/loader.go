package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/resolver.txt
var resolverRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Resolver string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Resolver: strings.TrimSpace(resolverRaw),
	}
}

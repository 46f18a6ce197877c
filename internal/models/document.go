package models

// Page is the ordered token sequence of one document page.
type Page struct {
	Number int
	Tokens []string
}

// Document is a billing statement as delivered by the extractor.
type Document struct {
	Path  string
	Pages []Page
}

// TokenCount returns the number of tokens across all pages.
func (d *Document) TokenCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Tokens)
	}
	return n
}

// TokenTrace captures what the parser did with one token.
type TokenTrace struct {
	Page  int    `json:"page"`
	Index int    `json:"index"`
	Text  string `json:"text"`
	Shape string `json:"shape"`

	// Outcome is "set", "reset", "account", "service", "ignored",
	// "unrecognized" or "invalid".
	Outcome string `json:"outcome"`
	Slot    string `json:"slot,omitempty"`
	Last    string `json:"last,omitempty"`
	Commit  string `json:"commit,omitempty"`
}

package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey is the key of a rendered file.
	ArtifactKey(definitionHash string, opts ArtifactKeyOpts) string
	// DefinitionKey is the key of a stored chart definition.
	DefinitionKey(id string) string
}

// ArtifactKeyOpts are the render settings that change the output bytes.
type ArtifactKeyOpts struct {
	Kind        string  `json:"kind"`
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Language    string  `json:"language"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Factor      float64 `json:"factor"`
	Transparent bool    `json:"transparent"`
}

// DefaultKeyer produces "artifact:<hash>" and "definition:<id>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the definition hash together with the options.
func (DefaultKeyer) ArtifactKey(definitionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", definitionHash, opts)
}

// DefinitionKey namespaces a definition id.
func (DefaultKeyer) DefinitionKey(id string) string {
	return fmt.Sprintf("definition:%s", id)
}

package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// DocumentFormat tags scene files so other tools can recognize them.
const DocumentFormat = "keycap-studio/scene"

// SchemaVersion is bumped when the node schema changes incompatibly.
const SchemaVersion = 1

// Document is the serialized form of a scene: a format tag, an integer schema
// version, and the root node. The evaluator never sees the wrapper; loading
// validates it and hands the tree on.
type Document struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Root    *Node  `json:"root"`
}

// NewDocument wraps a root node in the current format/version.
func NewDocument(root *Node) Document {
	return Document{Format: DocumentFormat, Version: SchemaVersion, Root: root}
}

// DecodeDocument parses and validates a scene document.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("scene: bad document: %w", err)
	}
	if doc.Format != DocumentFormat {
		return Document{}, fmt.Errorf("scene: unexpected format %q", doc.Format)
	}
	if doc.Version > SchemaVersion {
		return Document{}, fmt.Errorf("scene: document version %d is newer than supported %d", doc.Version, SchemaVersion)
	}
	if err := doc.Root.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadDocument reads and decodes a scene file.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return DecodeDocument(data)
}

// Save writes the document as indented JSON.
func (d Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package cda

import (
	"encoding/xml"
	"fmt"
)

// Parse reads a C-CDA XML document into its typed tree. It performs no
// clinical interpretation: template dispatch and concept mapping happen
// downstream on the returned tree.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cda: document is empty")
	}

	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cda: parse XML: %w", err)
	}
	return &doc, nil
}

package xml

import (
	"fmt"

	"github.com/beevik/etree"
)

// NewDocument builds a period document holding periods in order
func NewDocument(periods []PeriodElement) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(TagPeriods)
	root.Space = PeriodPrefix
	AddNamespaces(doc)
	root.CreateAttr(AttrVersion, DocumentVersion)

	for i := range periods {
		root.AddChild(periods[i].ToElement())
	}

	doc.Indent(2)
	return doc
}

// ParseDocument reads every period of a period document. Duplicate ids are
// rejected.
func ParseDocument(doc *etree.Document) ([]PeriodElement, error) {
	if doc == nil || doc.Root() == nil {
		return nil, fmt.Errorf("empty document")
	}

	root := doc.Root()
	if root.Tag != TagPeriods || !inPeriodNS(root) {
		return nil, fmt.Errorf("invalid root tag: %s", root.FullTag())
	}
	if v := root.SelectAttrValue(AttrVersion, DocumentVersion); v != DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %q", v)
	}

	var periods []PeriodElement
	seen := make(map[string]bool)
	for _, elem := range root.ChildElements() {
		if elem.Tag != TagPeriod {
			continue
		}
		var p PeriodElement
		if err := p.FromElement(elem); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate period id %s", p.ID)
		}
		seen[p.ID] = true
		periods = append(periods, p)
	}
	return periods, nil
}

// ParseBytes parses a period document from raw XML
func ParseBytes(data []byte) ([]PeriodElement, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse period document: %w", err)
	}
	return ParseDocument(doc)
}

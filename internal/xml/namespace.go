package xml

import "github.com/beevik/etree"

// Namespace definitions for period documents
const (
	// Period is the namespace of the period document format
	Period = "urn:openbook:period"
	// PeriodPrefix is the prefix bound to Period in written documents
	PeriodPrefix = "p"
)

// AddNamespaces binds the period namespace on the document root
func AddNamespaces(doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}
	root.CreateAttr("xmlns:"+PeriodPrefix, Period)
}

// createElementWithNS adds a child in the period namespace
func createElementWithNS(parent *etree.Element, tag string) *etree.Element {
	elem := parent.CreateElement(tag)
	elem.Space = PeriodPrefix
	return elem
}

// inPeriodNS reports whether elem may belong to the period namespace.
// Elements whose prefix resolves to nothing, as in detached fragments, are
// accepted; only a binding to another namespace rejects them.
func inPeriodNS(elem *etree.Element) bool {
	ns := elem.NamespaceURI()
	return ns == Period || ns == ""
}

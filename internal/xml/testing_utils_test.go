package xml

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var (
	xmlDeclaration = regexp.MustCompile(`<\?xml[^>]*\?>`)
	spaceBetween   = regexp.MustCompile(`>\s+<`)
	spaceRuns      = regexp.MustCompile(`\s+`)
	spaceInTags    = regexp.MustCompile(`\s*(/?>)|(<)\s*`)
)

// normalizeXML drops the declaration and insignificant whitespace so two
// renderings of the same period element compare equal.
func normalizeXML(s string) string {
	s = xmlDeclaration.ReplaceAllString(s, "")
	s = spaceBetween.ReplaceAllString(s, "><")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = spaceInTags.ReplaceAllString(s, "$1$2")
	return strings.TrimSpace(s)
}

// elementToString renders elem on its own, without a declaration
func elementToString(elem *etree.Element) string {
	doc := etree.NewDocument()
	doc.AddChild(elem.Copy())
	s, _ := doc.WriteToString()
	return strings.TrimSpace(xmlDeclaration.ReplaceAllString(s, ""))
}

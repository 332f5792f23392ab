package xml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Tag and attribute names of the period document format
const (
	TagPeriods = "periods"
	TagPeriod  = "period"
	TagLabel   = "label"
	TagDetail  = "detail"
	TagLast    = "last"

	AttrVersion  = "version"
	AttrID       = "id"
	AttrKey      = "key"
	AttrEvery    = "every"
	AttrCreated  = "created"
	AttrModified = "modified"
)

// DocumentVersion is written on the root element
const DocumentVersion = "1"

// PeriodElement is one stored rule as it appears in a period document:
//
//	<p:period id="..." key="W" every="1" created="..." modified="...">
//	  <p:label>Gym</p:label>
//	  <p:detail>1</p:detail>
//	  <p:detail>3</p:detail>
//	  <p:last>2024-01-08</p:last>
//	</p:period>
//
// Detail values are kept as text so that damaged entries survive a
// load/save cycle unchanged.
type PeriodElement struct {
	ID       string
	Label    string
	Key      string
	Every    uint
	Details  []string
	Last     *time.Time
	Created  time.Time
	Modified time.Time
}

// ToElement converts a PeriodElement to an etree.Element
func (p *PeriodElement) ToElement() *etree.Element {
	elem := etree.NewElement(TagPeriod)
	elem.Space = PeriodPrefix
	elem.CreateAttr(AttrID, p.ID)
	elem.CreateAttr(AttrKey, p.Key)
	elem.CreateAttr(AttrEvery, strconv.FormatUint(uint64(p.Every), 10))
	if !p.Created.IsZero() {
		elem.CreateAttr(AttrCreated, p.Created.UTC().Format(time.RFC3339))
	}
	if !p.Modified.IsZero() {
		elem.CreateAttr(AttrModified, p.Modified.UTC().Format(time.RFC3339))
	}

	if p.Label != "" {
		createElementWithNS(elem, TagLabel).SetText(p.Label)
	}
	for _, d := range p.Details {
		createElementWithNS(elem, TagDetail).SetText(d)
	}
	if p.Last != nil {
		createElementWithNS(elem, TagLast).SetText(p.Last.Format(time.DateOnly))
	}
	return elem
}

// FromElement populates a PeriodElement from an etree.Element
func (p *PeriodElement) FromElement(elem *etree.Element) error {
	if elem == nil {
		return fmt.Errorf("nil element")
	}
	if elem.Tag != TagPeriod || !inPeriodNS(elem) {
		return fmt.Errorf("invalid period tag: %s", elem.FullTag())
	}

	*p = PeriodElement{
		ID:  strings.TrimSpace(elem.SelectAttrValue(AttrID, "")),
		Key: strings.TrimSpace(elem.SelectAttrValue(AttrKey, "")),
	}
	if p.ID == "" {
		return fmt.Errorf("period without %s attribute", AttrID)
	}

	if v := strings.TrimSpace(elem.SelectAttrValue(AttrEvery, "")); v != "" {
		every, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return fmt.Errorf("period %s: invalid %s %q: %w", p.ID, AttrEvery, v, err)
		}
		p.Every = uint(every)
	}

	var err error
	if p.Created, err = parseTimestamp(elem, AttrCreated); err != nil {
		return fmt.Errorf("period %s: %w", p.ID, err)
	}
	if p.Modified, err = parseTimestamp(elem, AttrModified); err != nil {
		return fmt.Errorf("period %s: %w", p.ID, err)
	}

	for _, child := range elem.ChildElements() {
		if !inPeriodNS(child) {
			continue
		}
		text := strings.TrimSpace(child.Text())
		switch child.Tag {
		case TagLabel:
			p.Label = text
		case TagDetail:
			if text != "" {
				p.Details = append(p.Details, text)
			}
		case TagLast:
			if text == "" {
				continue
			}
			last, err := time.Parse(time.DateOnly, text)
			if err != nil {
				return fmt.Errorf("period %s: invalid %s %q: %w", p.ID, TagLast, text, err)
			}
			p.Last = &last
		}
	}
	return nil
}

// DetailsCSV joins the details the way rules persist them
func (p *PeriodElement) DetailsCSV() string {
	return strings.Join(p.Details, ",")
}

// SetDetailsCSV splits a comma separated detail list, dropping blanks
func (p *PeriodElement) SetDetailsCSV(s string) {
	p.Details = nil
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			p.Details = append(p.Details, tok)
		}
	}
}

func parseTimestamp(elem *etree.Element, attr string) (time.Time, error) {
	v := strings.TrimSpace(elem.SelectAttrValue(attr, ""))
	if v == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", attr, v, err)
	}
	return ts, nil
}

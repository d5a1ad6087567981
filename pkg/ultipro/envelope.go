package ultipro

import (
	"encoding/xml"
	"strings"
)

const (
	envelopeNS   = "http://www.w3.org/2003/05/soap-envelope"
	addressingNS = "http://www.w3.org/2005/08/addressing"
	schemaNS     = "http://www.w3.org/2001/XMLSchema-instance"

	loginNS = "http://www.ultipro.com/services/loginservice"
	coreNS  = "http://www.ultipro.com"
)

// Attr is a single XML attribute on an envelope element.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of a request envelope. Header and body elements are
// carried as ordered slices, never maps: the rendered envelope must be
// byte-identical for identical input regardless of map iteration order.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []Element
}

// Text makes a leaf element with escaped character data.
func textElement(name, ns, value string) Element {
	return Element{
		Name:  name,
		Attrs: []Attr{{Name: "xmlns", Value: ns}},
		Text:  value,
	}
}

// buildEnvelope renders a SOAP 1.2 envelope with WS-Addressing action and
// destination headers, optional further header elements (credentials or the
// session token), and a single operation element in the body.
func buildEnvelope(action, to string, header []Element, body Element) string {
	var b strings.Builder

	b.WriteString(`<s:Envelope xmlns:s="` + envelopeNS + `" xmlns:a="` + addressingNS + `" xmlns:i="` + schemaNS + `">`)
	b.WriteString(`<s:Header>`)
	b.WriteString(`<a:Action s:mustUnderstand="1">`)
	xmlEscape(&b, action)
	b.WriteString(`</a:Action>`)
	b.WriteString(`<a:To s:mustUnderstand="1">`)
	xmlEscape(&b, to)
	b.WriteString(`</a:To>`)
	for _, el := range header {
		writeElement(&b, el)
	}
	b.WriteString(`</s:Header>`)
	b.WriteString(`<s:Body>`)
	writeElement(&b, body)
	b.WriteString(`</s:Body>`)
	b.WriteString(`</s:Envelope>`)

	return b.String()
}

func writeElement(b *strings.Builder, el Element) {
	b.WriteString("<" + el.Name)
	for _, attr := range el.Attrs {
		b.WriteString(" " + attr.Name + `="`)
		xmlEscape(b, attr.Value)
		b.WriteString(`"`)
	}

	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString("/>")
		return
	}

	b.WriteString(">")
	if el.Text != "" {
		xmlEscape(b, el.Text)
	}
	for _, child := range el.Children {
		writeElement(b, child)
	}
	b.WriteString("</" + el.Name + ">")
}

func xmlEscape(b *strings.Builder, s string) {
	// xml.EscapeText only fails on writer errors; strings.Builder has none.
	_ = xml.EscapeText(b, []byte(s))
}

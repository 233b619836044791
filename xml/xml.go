// Package xml provides an XML codec implementation.
//
// Normalized trees and lists have no element name of their own, so they are
// wrapped in a <response> root. List elements encode as <item>.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/gdpr"
)

const (
	// RootElement names the document element wrapping normalized output.
	RootElement = "response"
	// ItemElement names each element of a top-level list.
	ItemElement = "item"
)

// xmlCodec implements gdpr.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() gdpr.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case *gdpr.Tree, []any:
		return xml.Marshal(document{value: v})
	default:
		return xml.Marshal(v)
	}
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// document wraps normalized output in the root element.
type document struct {
	value any
}

func (d document) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: RootElement}}
	switch val := d.value.(type) {
	case *gdpr.Tree:
		return val.MarshalXML(e, start)
	case []any:
		if err := e.EncodeToken(start); err != nil {
			return err
		}
		item := xml.StartElement{Name: xml.Name{Local: ItemElement}}
		for _, elem := range val {
			if elem == nil {
				elem = ""
			}
			if err := e.EncodeElement(elem, item); err != nil {
				return err
			}
		}
		return e.EncodeToken(start.End())
	default:
		return e.EncodeElement(val, start)
	}
}

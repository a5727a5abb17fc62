// Package hipstershop holds the subset of the Online Boutique demo.proto
// contract this service speaks: the RecommendationService it serves and the
// ProductCatalogService it calls. Messages are encoded with protowire so they
// stay byte-compatible with the generated stubs used by the other services.
package hipstershop

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage is implemented by every message in this package.
type wireMessage interface {
	appendWire(b []byte) []byte
	consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error)
	reset()
}

type Empty struct{}

func (*Empty) appendWire(b []byte) []byte { return b }

func (*Empty) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return skipField(num, typ, b)
}

func (*Empty) reset() {}

type Product struct {
	ID   string
	Name string
}

func (p *Product) appendWire(b []byte) []byte {
	b = appendString(b, 1, p.ID)
	b = appendString(b, 2, p.Name)
	return b
}

func (p *Product) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch {
	case num == 1 && typ == protowire.BytesType:
		return consumeString(b, &p.ID)
	case num == 2 && typ == protowire.BytesType:
		return consumeString(b, &p.Name)
	}
	// description, picture, price_usd and categories are not used here.
	return skipField(num, typ, b)
}

func (p *Product) reset() { *p = Product{} }

type ListProductsResponse struct {
	Products []*Product
}

func (m *ListProductsResponse) appendWire(b []byte) []byte {
	for _, p := range m.Products {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, p.appendWire(nil))
	}
	return b
}

func (m *ListProductsResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 || typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	raw, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	p := &Product{}
	if err := decode(raw, p); err != nil {
		return 0, fmt.Errorf("products: %w", err)
	}
	m.Products = append(m.Products, p)
	return n, nil
}

func (m *ListProductsResponse) reset() { *m = ListProductsResponse{} }

// ProductIDs returns the ids of all products in response order.
func (m *ListProductsResponse) ProductIDs() []string {
	ids := make([]string, 0, len(m.Products))
	for _, p := range m.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

type ListRecommendationsRequest struct {
	UserID     string
	ProductIDs []string
}

func (m *ListRecommendationsRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserID)
	for _, id := range m.ProductIDs {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	return b
}

func (m *ListRecommendationsRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch {
	case num == 1 && typ == protowire.BytesType:
		return consumeString(b, &m.UserID)
	case num == 2 && typ == protowire.BytesType:
		var id string
		n, err := consumeString(b, &id)
		if err != nil {
			return 0, err
		}
		m.ProductIDs = append(m.ProductIDs, id)
		return n, nil
	}
	return skipField(num, typ, b)
}

func (m *ListRecommendationsRequest) reset() { *m = ListRecommendationsRequest{} }

type ListRecommendationsResponse struct {
	ProductIDs []string
}

func (m *ListRecommendationsResponse) appendWire(b []byte) []byte {
	for _, id := range m.ProductIDs {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	return b
}

func (m *ListRecommendationsResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 || typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	var id string
	n, err := consumeString(b, &id)
	if err != nil {
		return 0, err
	}
	m.ProductIDs = append(m.ProductIDs, id)
	return n, nil
}

func (m *ListRecommendationsResponse) reset() { *m = ListRecommendationsResponse{} }

func encode(m wireMessage) []byte {
	return m.appendWire(nil)
}

func decode(b []byte, m wireMessage) error {
	m.reset()
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, err := m.consumeField(num, typ, b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// appendString omits empty strings, matching proto3 default handling.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func consumeString(b []byte, dst *string) (int, error) {
	s, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = s
	return n, nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

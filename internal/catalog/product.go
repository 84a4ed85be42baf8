package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const DefaultCategory = "miscellaneous"

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

var errPriceNotNumeric = errors.New("price must be a number")

// Price is a float64 that also decodes from a numeric JSON string.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			*p = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errPriceNotNumeric
		}
		f = parsed
	default:
		return errPriceNotNumeric
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errPriceNotNumeric
	}
	*p = Price(f)
	return nil
}

// givenPrice is a create-time price that also records whether the client
// supplied one. The number 0, null and "" count as not supplied; any other
// string, "0" included, counts.
type givenPrice struct {
	Value Price
	Given bool
}

func (g *givenPrice) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &g.Value); err != nil {
		return err
	}
	t := bytes.TrimSpace(data)
	g.Given = g.Value != 0 || (len(t) > 2 && t[0] == '"')
	return nil
}

// Field tracks whether a JSON key was present at all. A present null sets the
// zero value.
type Field[T any] struct {
	Set   bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(data, []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Patch lists the fields an update may change. Anything else in the request
// body, id included, is dropped.
type Patch struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
	Price       Field[Price]  `json:"price"`
	Category    Field[string] `json:"category"`
	InStock     Field[bool]   `json:"inStock"`
}

// Apply returns p with every set field of patch copied over it.
func (p Product) Apply(patch Patch) Product {
	if patch.Name.Set {
		p.Name = patch.Name.Value
	}
	if patch.Description.Set {
		p.Description = patch.Description.Value
	}
	if patch.Price.Set {
		p.Price = float64(patch.Price.Value)
	}
	if patch.Category.Set {
		p.Category = patch.Category.Value
	}
	if patch.InStock.Set {
		p.InStock = patch.InStock.Value
	}
	return p
}

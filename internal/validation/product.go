package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"catalog/internal/errs"
	"catalog/internal/models"
)

// ErrMalformedBody is returned when the body is not a JSON object.
var ErrMalformedBody = errors.New("request body must be a JSON object")

// Product payload field names.
const (
	FieldName              = "name"
	FieldCategory          = "category"
	FieldRemainingQuantity = "remainingQuantity"
	FieldPrice             = "price"
	FieldChipset           = "chipset"
	FieldScreenSize        = "screenSize"
	FieldMemory            = "memory"
	FieldStorage           = "storage"
	FieldThumbnailURL      = "thumbnailUrl"
	FieldImageURL          = "imageUrl"
)

var requiredFields = []string{FieldName, FieldCategory, FieldPrice}

// field is one member of the decoded body. A field that was not sent at
// all has present == false; an explicit JSON null is present with a nil
// value.
type field struct {
	present bool
	value   any
}

type payload map[string]field

func decodePayload(body []byte) (payload, error) {
	p := payload{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if raw == nil {
		return nil, ErrMalformedBody
	}

	for k, msg := range raw {
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		p[k] = field{present: true, value: v}
	}
	return p, nil
}

// blank reports whether a required field should be treated as missing:
// not sent, null, an empty string, zero, or false.
func (f field) blank() bool {
	if !f.present || f.value == nil {
		return true
	}
	switch v := f.value.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		n, err := v.Float64()
		return err == nil && n == 0
	}
	return false
}

func (f field) str() (string, bool) {
	s, ok := f.value.(string)
	return s, ok
}

func (f field) number() (float64, bool) {
	n, ok := f.value.(json.Number)
	if !ok {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// integer accepts JSON numbers with no fractional part, so 12 and 12.0
// are both integers while 12.5 and "12" are not.
func (f field) integer() (int64, bool) {
	n, ok := f.value.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i, true
	}
	v, ok := f.number()
	if !ok || v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func required(field string) string { return field + " is required" }
func invalid(field string) string  { return field + " is invalid" }

// ParseProduct validates a create/update body in two phases.
//
// The first phase checks that name, category and price are present and
// stops there when any is missing. The second phase checks the type and
// format of every field and reports all violations together.
//
// A non-nil error means the body could not be decoded at all. Otherwise,
// either the returned FieldErrors is empty and the input is usable, or
// it lists every violation found.
func ParseProduct(body []byte) (*models.ProductInput, errs.FieldErrors, error) {
	p, err := decodePayload(body)
	if err != nil {
		return nil, nil, err
	}

	var fe errs.FieldErrors
	for _, name := range requiredFields {
		if p[name].blank() {
			fe.Add(name, required(name))
		}
	}
	if !fe.Empty() {
		return nil, fe, nil
	}

	in := &models.ProductInput{}

	if s, ok := p[FieldName].str(); ok {
		in.Name = s
	} else {
		fe.Add(FieldName, invalid(FieldName))
	}

	if s, ok := p[FieldCategory].str(); ok && IsValidID(s) {
		in.CategoryID = s
	} else {
		fe.Add(FieldCategory, "categoryId is invalid")
	}

	if f := p[FieldRemainingQuantity]; f.present {
		n, ok := f.integer()
		if ok && n >= 0 && n <= math.MaxInt32 {
			q := int(n)
			in.RemainingQuantity = &q
		} else {
			fe.Add(FieldRemainingQuantity, invalid(FieldRemainingQuantity))
		}
	}

	if n, ok := p[FieldPrice].integer(); ok {
		in.Price = n
	} else {
		fe.Add(FieldPrice, invalid(FieldPrice))
	}

	if f := p[FieldChipset]; f.present {
		if s, ok := f.str(); ok {
			in.Chipset = &s
		} else {
			fe.Add(FieldChipset, invalid(FieldChipset))
		}
	}

	for _, nf := range []struct {
		name string
		dst  **float64
	}{
		{FieldScreenSize, &in.ScreenSize},
		{FieldMemory, &in.Memory},
		{FieldStorage, &in.Storage},
	} {
		f := p[nf.name]
		if !f.present {
			continue
		}
		if v, ok := f.number(); ok {
			*nf.dst = &v
		} else {
			fe.Add(nf.name, invalid(nf.name))
		}
	}

	for _, uf := range []struct {
		name string
		dst  **string
	}{
		{FieldThumbnailURL, &in.ThumbnailURL},
		{FieldImageURL, &in.ImageURL},
	} {
		f := p[uf.name]
		if !f.present {
			continue
		}
		if s, ok := f.str(); ok && IsURL(s) {
			*uf.dst = &s
		} else {
			fe.Add(uf.name, invalid(uf.name))
		}
	}

	if !fe.Empty() {
		return nil, fe, nil
	}
	return in, nil, nil
}

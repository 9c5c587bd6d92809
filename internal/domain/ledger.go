package domain

import (
	"database/sql/driver"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// QuantityMap is a cart ledger: product identifier to desired quantity.
// It is stored as a JSON text column so the whole ledger lives inside the
// owning user's row, mirroring a document-store map field.
type QuantityMap map[string]int64

func (m QuantityMap) Value() (driver.Value, error) {
	if m == nil {
		m = QuantityMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode quantity map")
	}
	return string(b), nil
}

func (m *QuantityMap) Scan(src interface{}) error {
	if src == nil {
		*m = QuantityMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported quantity map source %T", src)
	}
	if len(data) == 0 {
		*m = QuantityMap{}
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, m), "decode quantity map")
}

// Copy returns an independent copy of the ledger, used when freezing it into
// an order snapshot.
func (m QuantityMap) Copy() QuantityMap {
	out := make(QuantityMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ProductIDs returns the ledger keys.
func (m QuantityMap) ProductIDs() []string {
	ids := make([]string, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	return ids
}

// FlagMap is a favorites map: product identifier to flag. Stored as JSON text
// like QuantityMap.
type FlagMap map[string]bool

func (m FlagMap) Value() (driver.Value, error) {
	if m == nil {
		m = FlagMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode flag map")
	}
	return string(b), nil
}

func (m *FlagMap) Scan(src interface{}) error {
	if src == nil {
		*m = FlagMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported flag map source %T", src)
	}
	if len(data) == 0 {
		*m = FlagMap{}
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, m), "decode flag map")
}

// ActiveIDs returns the identifiers whose flag is set.
func (m FlagMap) ActiveIDs() []string {
	ids := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			ids = append(ids, k)
		}
	}
	return ids
}

// StringList is a JSON-encoded list column, used for product image references.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "encode string list")
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported string list source %T", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, l), "decode string list")
}

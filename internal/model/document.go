// Package model defines the records stored and served by the API.
//
// The records behave like documents: clients may send fields the structs do
// not declare, and those fields are kept in Extra and returned verbatim. The
// declared fields are the ones the server queries, sorts or validates on.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Extra holds document fields that have no typed counterpart.
// It is stored as a JSON object in a TEXT column.
type Extra map[string]json.RawMessage

// Value implements driver.Valuer.
func (e Extra) Value() (driver.Value, error) {
	if len(e) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]json.RawMessage(e))
	if err != nil {
		return nil, fmt.Errorf("model: encoding extra fields: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (e *Extra) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*e = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("model: cannot scan %T into Extra", src)
	}

	m := map[string]json.RawMessage{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("model: decoding extra fields: %w", err)
		}
	}
	if len(m) == 0 {
		*e = nil
		return nil
	}
	*e = m
	return nil
}

// jsonKeys lists the JSON names declared by the struct type of v.
func jsonKeys(v any) map[string]struct{} {
	t := reflect.TypeOf(v)
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// splitDocument decodes data into the typed struct behind into and returns
// every key that struct does not declare. encoding/json matches field names
// case-insensitively, so "foodname" fills FoodName and is not kept as extra.
func splitDocument(data []byte, into any, known map[string]struct{}) (Extra, error) {
	if err := json.Unmarshal(data, into); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	var extra Extra
	for k, v := range all {
		if isKnown(known, k) {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[k] = v
	}
	return extra, nil
}

func isKnown(known map[string]struct{}, key string) bool {
	if _, ok := known[key]; ok {
		return true
	}
	for name := range known {
		if strings.EqualFold(name, key) {
			return true
		}
	}
	return false
}

// joinDocument encodes typed and lays the extra fields next to its own.
// Declared fields win over extra fields with the same name.
func joinDocument(typed any, extra Extra) ([]byte, error) {
	b, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// InsertResult is returned by every create endpoint.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult reports how many documents an update matched and changed.
// UpsertedID is set only when the update created the document.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
	UpsertedCount int64   `json:"upsertedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

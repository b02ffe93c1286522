// Package model defines the style records exchanged between the source export
// and the master style pack.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/google/go-cmp/cmp"
)

// Well-known record keys.
const (
	KeyName        = "name"
	KeySections    = "sections"
	KeyEnabled     = "enabled"
	KeyUpdateURL   = "updateUrl"
	KeyMD5URL      = "md5Url"
	KeyOriginalMD5 = "originalMd5"
	KeyURL         = "url"
	KeyUpdateDate  = "updateDate"
	KeyRev         = "_rev"
)

// Field is one top-level key of a style record together with its raw JSON value.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Section is a single code block of a style. Keys other than code are kept
// verbatim so they survive a rewrite of the master list.
type Section struct {
	Code string

	raw   json.RawMessage
	value any
}

// NewSection returns a section holding only the given code.
func NewSection(code string) Section {
	raw, _ := encodeValue(map[string]string{"code": code})
	var value any
	_ = json.Unmarshal(raw, &value)
	return Section{Code: code, raw: raw, value: value}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Section) UnmarshalJSON(data []byte) error {
	var v struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}
	*s = Section{
		Code:  v.Code,
		raw:   append(json.RawMessage(nil), data...),
		value: value,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return encodeValue(map[string]string{"code": s.Code})
	}
	return s.raw, nil
}

// Style is a named bundle of CSS sections plus whatever metadata the styling
// application stores alongside it. The original key order is preserved.
type Style struct {
	Name     string
	Sections []Section

	fields []Field
}

// NewStyle builds a style with a name and the given section code blocks.
func NewStyle(name string, codes ...string) *Style {
	sections := make([]Section, 0, len(codes))
	for _, c := range codes {
		sections = append(sections, NewSection(c))
	}
	s := &Style{}
	// name and sections are always encodable
	_ = s.Set(KeyName, name)
	_ = s.Set(KeySections, sections)
	return s
}

// UnmarshalJSON implements json.Unmarshaler, keeping every key in document order.
func (s *Style) UnmarshalJSON(data []byte) error {
	decoded := Style{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		raw := make(json.RawMessage, 0, len(value)+2)
		if dataType == jsonparser.String {
			raw = append(raw, '"')
			raw = append(raw, value...)
			raw = append(raw, '"')
		} else {
			raw = append(raw, value...)
		}
		decoded.setRaw(string(key), raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("decode style: %w", err)
	}
	if err := decoded.refresh(); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalJSON implements json.Marshaler. HTML characters are not escaped
// since section code routinely contains child selectors.
func (s *Style) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Set stores v under key, replacing the existing value in place or appending
// the key when it is new.
func (s *Style) Set(key string, v any) error {
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.setRaw(key, raw)
	if key == KeyName || key == KeySections {
		return s.refresh()
	}
	return nil
}

// Get returns the raw JSON stored under key.
func (s *Style) Get(key string) (json.RawMessage, bool) {
	for _, f := range s.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the record keys in document order.
func (s *Style) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the record's fields in document order.
func (s *Style) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Enabled reports the record's enabled flag; a missing or non-boolean value is false.
func (s *Style) Enabled() bool {
	raw, ok := s.Get(KeyEnabled)
	if !ok {
		return false
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return false
	}
	return enabled
}

// Code concatenates the code of every section in order, without separator.
func (s *Style) Code() string {
	var sb strings.Builder
	for _, sec := range s.Sections {
		sb.WriteString(sec.Code)
	}
	return sb.String()
}

// FileName is the CSS file name derived from the style name.
func (s *Style) FileName() string {
	return FileName(s.Name)
}

// Clone returns a deep copy of the style.
func (s *Style) Clone() *Style {
	c := &Style{
		Name:     s.Name,
		Sections: make([]Section, len(s.Sections)),
		fields:   make([]Field, len(s.fields)),
	}
	copy(c.Sections, s.Sections)
	for i, f := range s.fields {
		c.fields[i] = Field{Key: f.Key, Value: append(json.RawMessage(nil), f.Value...)}
	}
	return c
}

func (s *Style) setRaw(key string, raw json.RawMessage) {
	for i := range s.fields {
		if s.fields[i].Key == key {
			s.fields[i].Value = raw
			return
		}
	}
	s.fields = append(s.fields, Field{Key: key, Value: raw})
}

// refresh re-derives Name and Sections from the raw fields.
func (s *Style) refresh() error {
	s.Name = ""
	s.Sections = nil
	if raw, ok := s.Get(KeyName); ok {
		if err := json.Unmarshal(raw, &s.Name); err != nil {
			return fmt.Errorf("decode style name: %w", err)
		}
	}
	if raw, ok := s.Get(KeySections); ok {
		if err := json.Unmarshal(raw, &s.Sections); err != nil {
			return fmt.Errorf("decode sections of %q: %w", s.Name, err)
		}
	}
	return nil
}

// FileName lower-cases name and replaces spaces with underscores, suffixed .css.
func FileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_")) + ".css"
}

// SectionsEqual reports whether two section lists are structurally equal.
// Key order inside a section does not matter.
func SectionsEqual(a, b []Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !cmp.Equal(a[i].decoded(), b[i].decoded()) {
			return false
		}
	}
	return true
}

func (s Section) decoded() any {
	if s.value != nil {
		return s.value
	}
	return map[string]any{"code": s.Code}
}

func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField is one field -> direction entry.
type SortField struct {
	Field     string
	Direction Direction
}

// Sort is an ordered list of sort entries. On the wire it is a JSON object
// ({"startAt": "desc", "title": "asc"}) whose key order is the sort priority,
// which is why decoding walks the object with gjson instead of a Go map.
type Sort []SortField

// UnmarshalJSON decodes the object form, keeping key order.
func (s *Sort) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("sort: invalid json")
	}
	r := gjson.ParseBytes(b)
	if r.Type == gjson.Null {
		*s = nil
		return nil
	}
	if !r.IsObject() {
		return fmt.Errorf("sort: expected an object of field to direction")
	}
	var (
		out Sort
		err error
	)
	r.ForEach(func(key, value gjson.Result) bool {
		d := Direction(strings.ToLower(value.String()))
		if value.Type != gjson.String || (d != Asc && d != Desc) {
			err = fmt.Errorf("sort: field %q must be \"asc\" or \"desc\"", key.String())
			return false
		}
		out = append(out, SortField{Field: key.String(), Direction: d})
		return true
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes the object form in priority order.
func (s Sort) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Field)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(`"` + string(f.Direction) + `"`)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Resolve renames sort fields to columns using the allowed mapping and
// rejects fields that are not in it.
func (s Sort) Resolve(columns map[string]string) (Sort, error) {
	if len(s) == 0 {
		return nil, nil
	}
	out := make(Sort, 0, len(s))
	for _, f := range s {
		col, ok := columns[f.Field]
		if !ok {
			return nil, fmt.Errorf("정렬할 수 없는 항목입니다: %s", f.Field)
		}
		out = append(out, SortField{Field: col, Direction: f.Direction})
	}
	return out, nil
}

// Pageable is the pagination + sort part of every list input.
type Pageable struct {
	Offset *int `json:"offset" binding:"omitempty,min=0"`
	Limit  *int `json:"limit" binding:"omitempty,min=1,max=100"`
	Sort   Sort `json:"sort"`
}

// Resolve validates the sort against columns and substitutes def when no
// sort was requested.
func (p *Pageable) Resolve(columns map[string]string, def Sort) (Pageable, error) {
	if p == nil {
		return Pageable{Sort: def}, nil
	}
	out := *p
	sort, err := p.Sort.Resolve(columns)
	if err != nil {
		return Pageable{}, err
	}
	if len(sort) == 0 {
		sort = def
	}
	out.Sort = sort
	return out, nil
}

package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type nodeKind int

const (
	kindNull nodeKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

type member struct {
	key string
	val *node
}

// node is a decoded JSON value that remembers object key order.
// encoding/json maps lose it, and propositions must render in the order the
// API wrote them. A nil *node stands for an absent field.
type node struct {
	kind    nodeKind
	b       bool
	s       string // string contents or number literal
	items   []*node
	members []member
}

func parseTree(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return root, nil
}

func decodeNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return &node{kind: kindNull}, nil
	case bool:
		return &node{kind: kindBool, b: t}, nil
	case json.Number:
		return &node{kind: kindNumber, s: t.String()}, nil
	case string:
		return &node{kind: kindString, s: t}, nil
	case json.Delim:
		switch t {
		case '[':
			n := &node{kind: kindArray}
			for dec.More() {
				item, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '{':
			n := &node{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				val, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.setMember(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// setMember keeps the first position of a repeated key and its last value.
func (n *node) setMember(key string, val *node) {
	for i := range n.members {
		if n.members[i].key == key {
			n.members[i].val = val
			return
		}
	}
	n.members = append(n.members, member{key: key, val: val})
}

func (n *node) isObject() bool { return n != nil && n.kind == kindObject }

func (n *node) isAbsent() bool { return n == nil || n.kind == kindNull }

func (n *node) get(key string) *node {
	if !n.isObject() {
		return nil
	}
	for _, m := range n.members {
		if m.key == key {
			return m.val
		}
	}
	return nil
}

// list returns the array items, or nil for anything that is not an array.
func (n *node) list() []*node {
	if n == nil || n.kind != kindArray {
		return nil
	}
	return n.items
}

func (n *node) object() []member {
	if !n.isObject() {
		return nil
	}
	return n.members
}

func (n *node) isTrue() bool {
	return n != nil && n.kind == kindBool && n.b
}

// text coerces any value to display text. Absent values become "".
func (n *node) text() string {
	if n.isAbsent() {
		return ""
	}
	switch n.kind {
	case kindString, kindNumber:
		return n.s
	case kindBool:
		return strconv.FormatBool(n.b)
	default:
		return string(n.raw())
	}
}

func (n *node) value() Value {
	switch {
	case n.isAbsent():
		return Value{}
	case n.kind == kindBool:
		return BoolValue(n.b)
	default:
		return Value{Kind: ValueOther, Text: n.text()}
	}
}

// raw re-encodes the node as compact JSON, or nil when absent.
func (n *node) raw() json.RawMessage {
	if n == nil {
		return nil
	}
	return n.appendJSON(nil)
}

func (n *node) appendJSON(b []byte) []byte {
	switch n.kind {
	case kindNull:
		return append(b, "null"...)
	case kindBool:
		return strconv.AppendBool(b, n.b)
	case kindNumber:
		return append(b, n.s...)
	case kindString:
		return appendQuoted(b, n.s)
	case kindArray:
		b = append(b, '[')
		for i, item := range n.items {
			if i > 0 {
				b = append(b, ',')
			}
			b = item.appendJSON(b)
		}
		return append(b, ']')
	default:
		b = append(b, '{')
		for i, m := range n.members {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendQuoted(b, m.key)
			b = append(b, ':')
			b = m.val.appendJSON(b)
		}
		return append(b, '}')
	}
}

// appendQuoted appends s as a JSON string. <, > and & are kept as is.
func appendQuoted(b []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return append(b, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
}

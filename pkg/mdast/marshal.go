package mdast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidNode is returned when serialized input does not describe a node.
var ErrInvalidNode = errors.New("invalid node")

// wireNode is the serialized shape of a node: {"elem", "opts", "content"}.
type wireNode struct {
	Elem    string `json:"elem"`
	Opts    *Opts  `json:"opts,omitempty"`
	Content []Item `json:"content,omitempty"`
}

// MarshalJSON encodes the node as {"elem": ..., "opts": ..., "content": [...]}.
// Text items encode as strings and groups as nested arrays.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNode{
		Elem:    n.Elem.String(),
		Opts:    n.Opts,
		Content: n.Content,
	})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Elem    string            `json:"elem"`
		Opts    *Opts             `json:"opts"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode node: %w", err)
	}

	elem, ok := ParseElem(raw.Elem)
	if !ok {
		return fmt.Errorf("%w: unknown elem %q", ErrInvalidNode, raw.Elem)
	}

	content, err := decodeItems(raw.Content)
	if err != nil {
		return err
	}

	n.Elem = elem
	n.Opts = raw.Opts
	n.Content = content
	return nil
}

func decodeItems(raws []json.RawMessage) ([]Item, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	items := make([]Item, 0, len(raws))
	for _, r := range raws {
		it, err := decodeItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

//nolint:ireturn // Item is a closed sum type.
func decodeItem(data json.RawMessage) (Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty content item", ErrInvalidNode)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("decode text: %w", err)
		}
		return Text(s), nil
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		items, err := decodeItems(raws)
		if err != nil {
			return nil, err
		}
		return Group(items), nil
	case '{':
		node := &Node{}
		if err := node.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return node, nil
	case 'n':
		// An empty group encodes as null.
		return Group(nil), nil
	default:
		return nil, fmt.Errorf("%w: unexpected content item %s", ErrInvalidNode, trimmed)
	}
}

// yamlNode mirrors wireNode for YAML output.
type yamlNode struct {
	Elem    string `yaml:"elem"`
	Opts    *Opts  `yaml:"opts,omitempty"`
	Content []any  `yaml:"content,omitempty"`
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (n *Node) MarshalYAML() (any, error) {
	return yamlNode{
		Elem:    n.Elem.String(),
		Opts:    n.Opts,
		Content: yamlItems(n.Content),
	}, nil
}

func yamlItems(items []Item) []any {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Text:
			out = append(out, string(v))
		case Group:
			group := yamlItems(v)
			if group == nil {
				group = []any{}
			}
			out = append(out, group)
		case *Node:
			out = append(out, v)
		}
	}
	return out
}

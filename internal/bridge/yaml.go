// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bridge

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strings"

	"go.e43.eu/bencode/value"
	"gopkg.in/yaml.v3"
)

// YAMLNode returns the YAML node tree representing v
func (o Options) YAMLNode(v value.Value) *yaml.Node {
	switch v := v.(type) {
	case value.Integer:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.String()}

	case value.ByteString:
		if t, ok := o.text(v); ok {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
		}
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!binary",
			Value: base64.StdEncoding.EncodeToString([]byte(v)),
		}

	case value.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Items() {
			n.Content = append(n.Content, o.YAMLNode(e))
		}
		return n

	case value.Dictionary:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Range(func(k value.ByteString, e value.Value) bool {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: o.key(k)}
			n.Content = append(n.Content, key, o.YAMLNode(e))
			return true
		})
		return n
	}
	panic(fmt.Sprintf("bridge: Unexpected value %T", v))
}

// ToYAML renders v as a YAML document
func (o Options) ToYAML(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(o.YAMLNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromYAML parses the first document of data into a tree
func FromYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err == io.EOF {
		return nil, ErrEmpty
	} else if err != nil {
		return nil, err
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, ErrEmpty
		}
		return fromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewList(items...), nil

	case yaml.MappingNode:
		pairs := make([]value.Pair, 0, len(n.Content)/2)
		seen := make(keySet, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn := n.Content[i]
			if kn.Kind != yaml.ScalarNode {
				return nil, UnrepresentableError{fmt.Sprintf("non-scalar key at line %d", kn.Line)}
			}
			key, err := parseKey(kn.Value)
			if err != nil {
				return nil, err
			}
			if err := seen.add(key); err != nil {
				return nil, err
			}
			v, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, value.Entry(key, v))
		}
		return value.NewDictionary(pairs...), nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, UnrepresentableError{fmt.Sprintf("YAML node kind %d", n.Kind)}
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!str":
		return value.Text(n.Value), nil

	case "!!int":
		// Base 0 accepts YAML's 0x, 0o and 0b prefixes
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, UnrepresentableError{fmt.Sprintf("integer %q at line %d", n.Value, n.Line)}
		}
		return value.BigInt(i), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		if b {
			return value.Int(1), nil
		}
		return value.Int(0), nil

	case "!!binary":
		// Block scalars wrap the base64 text over several lines
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("bridge: Invalid binary at line %d: %v", n.Line, err)
		}
		return value.Bytes(b), nil
	}
	return nil, UnrepresentableError{fmt.Sprintf("%s %q at line %d", n.ShortTag(), n.Value, n.Line)}
}

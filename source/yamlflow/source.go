// Package yamlflow streams tokens for relaxed JSON input (unquoted keys, single
// quoted strings, # comments) by reading it as a YAML flow document with
// gopkg.in/yaml.v3. Object member order is preserved.
package yamlflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/amisform/internal/engine"
)

type source struct {
	tokens []eng.Token
	idx    int
	err    error
}

// NewBytes decodes the first YAML document of b and replays it as tokens.
// Decoding errors surface on the first NextToken call.
func NewBytes(b []byte) eng.TokenSource {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		return &source{err: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return &source{err: eng.ErrTrailingData}
	} else if !errors.Is(err, io.EOF) {
		return &source{err: err}
	}
	s := &source{}
	if len(root.Content) == 0 {
		s.err = io.EOF
		return s
	}
	if err := s.appendNode(root.Content[0]); err != nil {
		return &source{err: err}
	}
	return s
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.idx >= len(s.tokens) {
		return eng.Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) appendNode(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.emit(eng.Token{Kind: eng.KindNull})
			return nil
		}
		return s.appendNode(n.Content[0])
	case yaml.AliasNode:
		return s.appendNode(n.Alias)
	case yaml.MappingNode:
		s.emit(eng.Token{Kind: eng.KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			s.emit(eng.Token{Kind: eng.KindKey, String: k.Value})
			if err := s.appendNode(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndObject})
	case yaml.SequenceNode:
		s.emit(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.appendNode(c); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndArray})
	case yaml.ScalarNode:
		s.emit(scalarToken(n))
	default:
		return fmt.Errorf("unsupported yaml node kind %d at %d:%d", n.Kind, n.Line, n.Column)
	}
	return nil
}

func (s *source) emit(t eng.Token) {
	t.Offset = -1
	s.tokens = append(s.tokens, t)
}

func scalarToken(n *yaml.Node) eng.Token {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull}
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "true":
			return eng.Token{Kind: eng.KindBool, Bool: true}
		case "false":
			return eng.Token{Kind: eng.KindBool, Bool: false}
		}
	case "!!int":
		if _, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: n.Value}
		}
	case "!!float":
		if _, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return eng.Token{Kind: eng.KindNumber, Number: n.Value}
		}
	}
	return eng.Token{Kind: eng.KindString, String: n.Value}
}

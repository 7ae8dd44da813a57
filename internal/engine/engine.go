package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/reoring/amisform/node"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is the minimal interface every input driver implements.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports content after the first complete JSON value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// DecodeNode builds an ordered node tree from the token source. The source
// must hold exactly one value.
func DecodeNode(src TokenSource) (*node.Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	n, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	switch _, err := src.NextToken(); {
	case err == nil:
		return nil, ErrTrailingData
	case errors.Is(err, io.EOF):
		return n, nil
	default:
		return nil, err
	}
}

func decodeValue(src TokenSource, tok Token) (*node.Node, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return node.String(tok.String), nil
	case KindNumber:
		n, err := node.NumberLiteral(tok.Number)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", tok.Number, err)
		}
		return n, nil
	case KindBool:
		return node.Bool(tok.Bool), nil
	case KindNull:
		return node.Null(), nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource) (*node.Node, error) {
	var members []node.Member
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return node.Object(members...), nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		members = append(members, node.Member{Key: tok.String, Value: v})
	}
}

func decodeArray(src TokenSource) (*node.Node, error) {
	var items []*node.Node
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return node.Array(items...), nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func eofToUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

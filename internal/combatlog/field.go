package combatlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is one token of a combat log line: either a scalar string or a
// bracketed/parenthesised list of further fields.
type Field struct {
	scalar string
	list   []Field
	isList bool
}

func Scalar(value string) Field {
	return Field{scalar: value}
}

func List(items ...Field) Field {
	if items == nil {
		items = []Field{}
	}
	return Field{list: items, isList: true}
}

func (f Field) IsList() bool {
	return f.isList
}

// String returns the scalar value. Lists render in their log form so they can
// still be logged.
func (f Field) String() string {
	if !f.isList {
		return f.scalar
	}
	parts := make([]string, 0, len(f.list))
	for _, item := range f.list {
		parts = append(parts, item.String())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (f Field) List() []Field {
	if !f.isList {
		return nil
	}
	return f.list
}

func (f Field) Int() (int, error) {
	if f.isList {
		return 0, fmt.Errorf("field is a list, want integer")
	}
	return strconv.Atoi(strings.TrimSpace(f.scalar))
}

func (f Field) Int64() (int64, error) {
	if f.isList {
		return 0, fmt.Errorf("field is a list, want integer")
	}
	return strconv.ParseInt(strings.TrimSpace(f.scalar), 10, 64)
}

// Hex parses unit flag style values such as 0x511. Plain decimal is accepted
// as well.
func (f Field) Hex() (uint64, error) {
	if f.isList {
		return 0, fmt.Errorf("field is a list, want flags")
	}
	return strconv.ParseUint(strings.TrimSpace(f.scalar), 0, 64)
}

func (f Field) Bool() (bool, error) {
	n, err := f.Int()
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// Ints converts a list of scalar fields to integers.
func (f Field) Ints() ([]int, error) {
	if !f.isList {
		return nil, fmt.Errorf("field is a scalar, want list")
	}
	out := make([]int, 0, len(f.list))
	for i, item := range f.list {
		n, err := item.Int()
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (f Field) Equal(other Field) bool {
	if f.isList != other.isList {
		return false
	}
	if !f.isList {
		return f.scalar == other.scalar
	}
	if len(f.list) != len(other.list) {
		return false
	}
	for i := range f.list {
		if !f.list[i].Equal(other.list[i]) {
			return false
		}
	}
	return true
}

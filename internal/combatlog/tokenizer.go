package combatlog

import "fmt"

// tokenizer walks the body of a combat log line (everything after the
// timestamp) and yields top-level fields. It can stop after a number of
// top-level fields and pick up again from the same offset later, so wide
// records such as COMBATANT_INFO are only decoded as far as a handler reads.
type tokenizer struct {
	src  string
	pos  int
	done bool
}

// Tokenize parses a whole line body in one go.
func Tokenize(body string) ([]Field, error) {
	t := tokenizer{src: body}
	return t.scan(nil, 0)
}

// scan appends fields to out until limit top-level fields are present or the
// line ends. A limit of zero means no limit. Scanning only ever pauses right
// after a top-level comma, so no list or quote state has to survive between
// calls.
func (t *tokenizer) scan(out []Field, limit int) ([]Field, error) {
	if t.done || (limit > 0 && len(out) >= limit) {
		return out, nil
	}

	var (
		frames  [][]Field
		buf     []byte
		closed  *Field
		inQuote bool
	)

	commit := func() Field {
		var value Field
		if closed != nil {
			value = *closed
		} else {
			value = Scalar(string(buf))
		}
		closed = nil
		buf = buf[:0]
		return value
	}

	i := t.pos
	for ; i < len(t.src); i++ {
		c := t.src[i]
		if c == '\n' {
			break
		}

		if inQuote {
			if c == '"' {
				inQuote = false
				continue
			}
			buf = append(buf, c)
			continue
		}

		switch c {
		case ',':
			value := commit()
			if len(frames) > 0 {
				frames[len(frames)-1] = append(frames[len(frames)-1], value)
				continue
			}
			out = append(out, value)
			if limit > 0 && len(out) >= limit {
				t.pos = i + 1
				return out, nil
			}
		case '"':
			inQuote = true
		case '[', '(':
			frames = append(frames, []Field{})
			buf = buf[:0]
			closed = nil
		case ']', ')':
			if len(frames) == 0 {
				t.finish(len(t.src))
				return out, fmt.Errorf("%w: unexpected %q at offset %d, no list is open", ErrMalformedLogLine, c, i)
			}
			top := len(frames) - 1
			if closed != nil || len(buf) > 0 {
				frames[top] = append(frames[top], commit())
			}
			list := List(frames[top]...)
			frames = frames[:top]
			closed = &list
		default:
			buf = append(buf, c)
		}
	}

	t.finish(i)
	if len(frames) > 0 {
		return out, fmt.Errorf("%w: unexpected end of line, %d open list(s)", ErrMalformedLogLine, len(frames))
	}
	if closed != nil || len(buf) > 0 {
		out = append(out, commit())
	}
	return out, nil
}

func (t *tokenizer) finish(pos int) {
	t.pos = pos
	t.done = true
}

package psw

import (
	"bytes"
	"encoding/json"
	"io"
)

// marshal encodes v as compact JSON without escaping HTML characters,
// so alphabet symbols like '<' or '&' are written literally.
func marshal(v interface{}) ([]byte, error) {
	return Encode(v, false)
}

// Encode serializes v as JSON. If indent is true, the output uses
// 2-space indentation. No trailing newline is added.
func Encode(v interface{}, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write writes JSON encoding of v to w followed by a newline.
func Write(w io.Writer, v interface{}, indent bool) error {
	b, err := Encode(v, indent)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func (t *Transition) UnmarshalJSON(data []byte) error {
	var raw struct {
		In     string          `json:"in"`
		Out    string          `json:"out"`
		To     string          `json:"to"`
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w, err := UnmarshalExpr(raw.Weight)
	if err != nil {
		return err
	}
	*t = Transition{In: raw.In, Out: raw.Out, To: raw.To, Weight: w}
	return nil
}

func (c *Constraints) UnmarshalJSON(data []byte) error {
	var raw struct {
		Prob []json.RawMessage   `json:"prob"`
		Norm [][]json.RawMessage `json:"norm"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cons := Constraints{Prob: make([]Expr, 0, len(raw.Prob)), Norm: make([][]Expr, 0, len(raw.Norm))}
	for _, r := range raw.Prob {
		e, err := UnmarshalExpr(r)
		if err != nil {
			return err
		}
		cons.Prob = append(cons.Prob, e)
	}
	for _, rg := range raw.Norm {
		group := make([]Expr, 0, len(rg))
		for _, r := range rg {
			e, err := UnmarshalExpr(r)
			if err != nil {
				return err
			}
			group = append(group, e)
		}
		cons.Norm = append(cons.Norm, group)
	}
	*c = cons
	return nil
}

// ReadMachine decodes a machine from its JSON serialization.
func ReadMachine(r io.Reader) (*Machine, error) {
	var m Machine
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadConstraints decodes a constraints object from JSON.
func ReadConstraints(r io.Reader) (*Constraints, error) {
	var c Constraints
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

package facts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Select evaluates a JSONPath expression against the transparency form of b,
// for example "$.result_sets[*].records[*].member". Numbers are returned as
// json.Number so integers and floats keep their written form. No match is an
// empty result, not an error.
func Select(b *Bundle, path string) ([]any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}

	data, err := MarshalTransparency(b)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode transparency bundle: %w", err)
	}

	results := expr.Get(doc)
	if len(results) == 0 {
		return []any{}, nil
	}
	return results, nil
}

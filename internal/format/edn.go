package format

import (
	"bytes"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"olympos.io/encoding/edn"
)

// WriteEDN encodes v as EDN. Map keys become keywords, sorted, with
// spaces replaced by dashes; whole numbers print without a fraction.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	generic, err := toGeneric(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeEDNValue(&buf, generic); err != nil {
		return err
	}
	out := buf.Bytes()
	if pretty {
		var indented bytes.Buffer
		if err := edn.Indent(&indented, out, "", "  "); err != nil {
			return err
		}
		out = indented.Bytes()
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func writeEDNValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(' ')
			}
			kw, err := edn.Marshal(edn.Keyword(strings.ReplaceAll(k, " ", "-")))
			if err != nil {
				return err
			}
			buf.Write(kw)
			buf.WriteByte(' ')
			if err := writeEDNValue(buf, x[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeEDNValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			buf.WriteString(strconv.FormatInt(int64(x), 10))
		} else {
			buf.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
	default:
		b, err := edn.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

package docstore

import (
	"bytes"
	"encoding/json"
	"maps"
	"strconv"
)

// normalize converts v into the stored form: maps of string keys, leaves
// of json.Number, string or bool, arrays turned into index-keyed maps and
// nulls dropped. It returns nil when nothing is left to store.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeNormalized(raw)
}

func decodeNormalized(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return collapse(out), nil
}

func collapse(v any) any {
	switch x := v.(type) {
	case []any:
		m := make(map[string]any, len(x))
		for i, e := range x {
			if c := collapse(e); c != nil {
				m[strconv.Itoa(i)] = c
			}
		}
		if len(m) == 0 {
			return nil
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			if c := collapse(e); c != nil {
				m[k] = c
			}
		}
		if len(m) == 0 {
			return nil
		}
		return m
	default:
		return v
	}
}

func deepClone(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = deepClone(e)
	}
	return out
}

// arrayIndex parses k as a canonical non-negative index.
func arrayIndex(k string) (int, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// render turns a stored value back into its wire form. Index-keyed maps
// come back as arrays when more than half of the slots up to the largest
// index are filled, with null in the gaps; sparser ones stay maps.
func render(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	maxIdx := -1
	arrayLike := true
	for k := range m {
		n, ok := arrayIndex(k)
		if !ok {
			arrayLike = false
			break
		}
		maxIdx = max(maxIdx, n)
	}

	if arrayLike && maxIdx >= 0 && len(m)*2 > maxIdx+1 {
		out := make([]any, maxIdx+1)
		for k, e := range m {
			n, _ := arrayIndex(k)
			out[n] = render(e)
		}
		return out
	}

	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = render(e)
	}
	return out
}

func getAt(root map[string]any, segs []string) any {
	var cur any = root
	for _, s := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[s]
		if !ok {
			return nil
		}
	}
	if m, ok := cur.(map[string]any); ok && len(m) == 0 {
		return nil
	}
	return cur
}

// setAt stores v at segs, creating parents as needed. A nil v deletes the
// entry and prunes parents left empty.
func setAt(root map[string]any, segs []string, v any) {
	if len(segs) == 0 {
		clear(root)
		if m, ok := v.(map[string]any); ok {
			maps.Copy(root, m)
		}
		return
	}

	if v == nil {
		deleteAt(root, segs)
		return
	}

	cur := root
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur[s].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[s] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

func deleteAt(m map[string]any, segs []string) {
	if len(segs) == 1 {
		delete(m, segs[0])
		return
	}
	child, ok := m[segs[0]].(map[string]any)
	if !ok {
		return
	}
	deleteAt(child, segs[1:])
	if len(child) == 0 {
		delete(m, segs[0])
	}
}

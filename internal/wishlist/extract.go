package wishlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/upstream"
)

// ExtractProductID resolves the product id from any raw wishlist entry shape:
//
//	"p1"                      -> p1
//	["x", "p1"] / ["p1"]      -> second element, else first; must be a string
//	{"product":{"_id":"p1"}}  -> p1 (also product.id)
//	{"productId":"p1"}        -> p1
//	{"_id":"p1"} / {"id":"p1"} -> p1
//
// Anything else, including empty strings, yields ok == false.
func ExtractProductID(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		return decodeString(trimmed)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil || len(elems) == 0 {
			return "", false
		}
		candidate := elems[0]
		if len(elems) > 1 && !isNull(elems[1]) {
			candidate = elems[1]
		}
		return decodeString(candidate)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", false
		}
		if product, ok := obj["product"]; ok {
			var nested map[string]json.RawMessage
			if json.Unmarshal(product, &nested) == nil {
				if id, ok := firstString(nested, "_id", "id"); ok {
					return id, true
				}
			}
		}
		return firstString(obj, "productId", "_id", "id")
	}
	return "", false
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func firstString(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if s, ok := decodeString(raw); ok {
				return s, true
			}
		}
	}
	return "", false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// entry is one raw wishlist element after id extraction.
type entry struct {
	productID string
	itemID    string
	user      string
	createdAt time.Time
	details   *upstream.Product
}

// parseEntries decodes the wishlist body, which is either {"data":[...]} or a
// bare array. Unrecognized payloads yield no entries.
func parseEntries(body json.RawMessage) []entry {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	var elems []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil
		}
	case '{':
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil
		}
		if err := json.Unmarshal(wrapper.Data, &elems); err != nil {
			return nil
		}
	default:
		return nil
	}

	out := make([]entry, 0, len(elems))
	for idx, raw := range elems {
		pid, ok := ExtractProductID(raw)
		if !ok {
			continue
		}
		e := entry{productID: pid}
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) == nil {
			e.itemID, _ = firstString(obj, "_id", "id")
			e.user, _ = firstString(obj, "user")
			if ts, ok := firstString(obj, "createdAt"); ok {
				if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
					e.createdAt = parsed
				}
			}
			e.details = embeddedProduct(obj)
		}
		if e.itemID == "" {
			e.itemID = fmt.Sprintf("%s-wl-%d", pid, idx)
		}
		out = append(out, e)
	}
	return out
}

// embeddedProduct returns product details carried by the entry itself: either
// a populated "product" object or an entry that is the product.
func embeddedProduct(obj map[string]json.RawMessage) *upstream.Product {
	if nested, ok := obj["product"]; ok {
		var fields map[string]json.RawMessage
		if json.Unmarshal(nested, &fields) == nil {
			if _, hasTitle := fields["title"]; hasTitle {
				var p upstream.Product
				if json.Unmarshal(nested, &p) == nil {
					return &p
				}
			}
		}
		return nil
	}
	if _, hasTitle := obj["title"]; hasTitle {
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil
		}
		var p upstream.Product
		if json.Unmarshal(raw, &p) == nil {
			return &p
		}
	}
	return nil
}

package fetch

import (
	"encoding/json"
	"strconv"
	"strings"

	"balanceScope/internal/scalar"
)

// pageItems extracts the item list and continuation token from a page
// payload. Tolerated shapes: a top-level array, a top-level object with
// items/txs and continuationToken, or the same one level under result.
func pageItems(raw json.RawMessage) ([]map[string]interface{}, string) {
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ""
	}

	switch t := payload.(type) {
	case []interface{}:
		return toItemList(t), ""
	case map[string]interface{}:
		token := tokenString(scalar.Pick(t, "continuationToken", "continuation_token"))
		items := itemList(scalar.Pick(t, "items", "txs"))
		if len(items) == 0 {
			switch res := scalar.Pick(t, "result").(type) {
			case map[string]interface{}:
				if tok := tokenString(scalar.Pick(res, "continuationToken")); tok != "" {
					token = tok
				}
				items = itemList(scalar.Pick(res, "items", "txs"))
			case []interface{}:
				items = toItemList(res)
			}
		}
		return items, token
	}
	return nil, ""
}

// tokenString renders a continuation token for the next request. The
// API nominally returns strings, but numeric tokens are passed through
// in their exact digit form rather than terminating pagination.
func tokenString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func itemList(v interface{}) []map[string]interface{} {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	return toItemList(list)
}

func toItemList(list []interface{}) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(list))
	for _, it := range list {
		if obj, ok := it.(map[string]interface{}); ok {
			items = append(items, obj)
			continue
		}
		// Non-object entries are wrapped so downstream probing still works.
		items = append(items, map[string]interface{}{"value": it})
	}
	return items
}

// TxHashFromItem extracts the transaction hash from a page item,
// probing the common alias spellings and one nested tx object.
func TxHashFromItem(item map[string]interface{}) string {
	if h := scalar.PickString(item, "hash", "txHash", "transactionHash", "id", "txId"); h != "" {
		return h
	}
	if txObj, ok := scalar.Pick(item, "tx", "transaction").(map[string]interface{}); ok {
		return scalar.PickString(txObj, "hash", "txHash", "transactionHash", "id", "txId")
	}
	return ""
}

// UniqueHashes extracts hashes from page items in first-seen order,
// dropping duplicates and items without a resolvable hash.
func UniqueHashes(items []map[string]interface{}) []string {
	seen := make(map[string]struct{}, len(items))
	hashes := make([]string, 0, len(items))
	for _, item := range items {
		h := TxHashFromItem(item)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hashes = append(hashes, h)
	}
	return hashes
}

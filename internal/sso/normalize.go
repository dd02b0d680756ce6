package sso

import "github.com/dropDatabas3/ssobridge/internal/sso/fieldpath"

// unwrapEnvelope strips the wrapper some provider APIs put around the user
// record. The precedence — "data" (object or first object of an array), then
// "response" (object only), then "user", then a bare array — is a best-effort
// heuristic tuned to observed provider shapes, each stage applied at most
// once. Unknown envelopes simply fall through and field extraction comes back
// empty.
func unwrapEnvelope(doc any) any {
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["data"]; ok {
			switch t := inner.(type) {
			case []any:
				if len(t) > 0 {
					if first, ok := t[0].(map[string]any); ok {
						doc = first
					}
				}
			case map[string]any:
				doc = t
			}
		}
	}
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["response"].(map[string]any); ok {
			doc = inner
		}
	}
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["user"]; ok {
			if truthy(inner) {
				doc = inner
			}
		}
	}
	if arr, ok := doc.([]any); ok && len(arr) > 0 {
		if first, ok := arr[0].(map[string]any); ok {
			doc = first
		}
	}
	return doc
}

// truthy mirrors the loose emptiness check used when deciding whether a
// wrapper key actually holds the record.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// normalizeUserInfo extracts the canonical fields from an (enveloped) user
// record. id always tries its mapped path (default "id") and then "sub";
// email/name/picture are extracted only when the map names a path for them.
func normalizeUserInfo(doc any, userMap map[string]string) *UserInfo {
	doc = unwrapEnvelope(doc)

	info := &UserInfo{}

	idPath := userMap["id"]
	if idPath == "" {
		idPath = "id"
	}
	if v, ok := fieldpath.String(doc, idPath); ok {
		info.ID = v
	} else if v, ok := fieldpath.String(doc, "sub"); ok {
		info.ID = v
	}

	if p := userMap["email"]; p != "" {
		info.Email, _ = fieldpath.String(doc, p)
	}
	if p := userMap["name"]; p != "" {
		info.Name, _ = fieldpath.String(doc, p)
	}
	if p := userMap["picture"]; p != "" {
		info.Picture, _ = fieldpath.String(doc, p)
	}
	return info
}

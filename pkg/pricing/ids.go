package pricing

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// DefaultMaxIDs caps how many IDs ExtractItemIDs returns.
const DefaultMaxIDs = 25

var nonDigits = regexp.MustCompile(`[^\d]+`)

// ExtractItemID pulls one item ID out of a bare number or a game pass URL.
// URLs are checked for an "ID" query parameter first, then for the last
// numeric path segment.
func ExtractItemID(text string) (domain.ItemID, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if id, ok := normalizeID(text); ok {
		return id, true
	}

	u, err := url.Parse(text)
	if err != nil {
		return "", false
	}

	if ids, ok := u.Query()["ID"]; ok && len(ids) > 0 {
		return normalizeID(ids[0])
	}

	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	for i := len(parts) - 1; i >= 0; i-- {
		if id, ok := normalizeID(parts[i]); ok {
			return id, true
		}
	}
	return "", false
}

// ExtractItemIDs returns every distinct run of digits in text, in order of
// first appearance, up to limit IDs. A non-positive limit uses DefaultMaxIDs.
func ExtractItemIDs(text string, limit int) []domain.ItemID {
	if limit <= 0 {
		limit = DefaultMaxIDs
	}
	seen := make(map[domain.ItemID]struct{})
	var ids []domain.ItemID
	for _, tok := range nonDigits.Split(text, -1) {
		id, ok := normalizeID(tok)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) >= limit {
			break
		}
	}
	return ids
}

func normalizeID(s string) (domain.ItemID, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return "", false
	}
	return domain.ItemID(strconv.FormatUint(n, 10)), true
}

// Package vice classifies transactions against forbidden spending categories.
// Matching is pure rule-table lookup: no I/O, no state, no failure modes.
package vice

import (
	"sort"
	"strings"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// ID identifies a vice a user can stake an arena against.
type ID string

// Supported vices.
const (
	Coffee        ID = "coffee"
	FastFood      ID = "fast_food"
	Alcohol       ID = "alcohol"
	Takeaway      ID = "takeaway"
	Shopping      ID = "shopping"
	Subscriptions ID = "subscriptions"
	Gambling      ID = "gambling"
	Smoking       ID = "smoking"
)

// rule pairs the category names and description keywords that mark a
// transaction as belonging to a vice. Both sides match case-insensitively as
// substrings; words match only as whole tokens, so "bar" catches "HOTEL BAR"
// but not "BARBERSHOP".
type rule struct {
	categories []string
	keywords   []string
	words      []string
}

var rules = map[ID]rule{
	Coffee: {
		categories: []string{"coffee", "cafe"},
		keywords:   []string{"starbucks", "costa", "caffe nero", "pret", "coffee", "espresso", "latte"},
	},
	FastFood: {
		categories: []string{"fast food", "dining"},
		keywords:   []string{"mcdonald", "burger king", "kfc", "subway", "five guys", "wendy", "taco bell"},
	},
	Alcohol: {
		categories: []string{"alcohol", "bars", "pubs"},
		keywords:   []string{"wetherspoon", "brewdog", "liquor", "wine", "beer", "brewery"},
		words:      []string{"bar", "pub"},
	},
	Takeaway: {
		categories: []string{"takeaway", "delivery"},
		keywords:   []string{"deliveroo", "uber eats", "just eat", "doordash", "grubhub", "takeaway"},
	},
	Shopping: {
		categories: []string{"shopping", "clothing", "retail"},
		keywords:   []string{"amazon", "asos", "zara", "h&m", "ebay", "etsy", "shein"},
	},
	Subscriptions: {
		categories: []string{"subscriptions", "entertainment"},
		keywords:   []string{"netflix", "spotify", "disney", "hulu", "audible", "prime video", "subscription"},
	},
	Gambling: {
		categories: []string{"gambling", "betting"},
		keywords:   []string{"bet365", "ladbrokes", "william hill", "casino", "lottery", "poker", "draftkings"},
	},
	Smoking: {
		categories: []string{"smoking", "tobacco"},
		keywords:   []string{"vape", "tobacco", "cigar", "smoke shop", "juul"},
	},
}

// Matches reports whether the transaction falls under the given vice, by
// category name or by description keyword. An unrecognized vice never matches.
func Matches(txn model.Transaction, id ID) bool {
	r, ok := rules[id]
	if !ok {
		return false
	}

	category := strings.ToLower(txn.Category)
	for _, c := range r.categories {
		if category != "" && strings.Contains(category, c) {
			return true
		}
	}

	description := strings.ToLower(txn.Description)
	for _, k := range r.keywords {
		if strings.Contains(description, k) {
			return true
		}
	}

	if len(r.words) > 0 {
		for _, token := range strings.Fields(description) {
			for _, w := range r.words {
				if token == w {
					return true
				}
			}
		}
	}
	return false
}

// Known reports whether the identifier names a supported vice.
func Known(id ID) bool {
	_, ok := rules[id]
	return ok
}

// All returns the supported vice identifiers in stable order.
func All() []ID {
	ids := make([]ID, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package deckstats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one card in a discovered deck list. Category carries the
// nearest enclosing section header, when the page has one.
type Entry struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category,omitempty"`
	Commander bool   `json:"commander,omitempty"`
}

// quantityPrefix matches decklist-export lines like "2 Sol Ring", which
// show up as strings in page payloads but are not card names.
var quantityPrefix = regexp.MustCompile(`^\d+\s+[A-Za-z]`)

// DiscoverCards finds the deck list embedded anywhere in a page payload.
// Average-deck pages bury the list at varying depths depending on the
// page revision, so the whole document is searched for arrays whose every
// element looks like a card. Entries come back in document order,
// deduplicated case-insensitively with quantities summed.
func DiscoverCards(raw []byte) ([]Entry, error) {
	root, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	index := make(map[string]int)
	for _, list := range collectCardLists(root) {
		for _, item := range list.items {
			entry, ok := normalizeEntry(item)
			if !ok {
				continue
			}
			entry.Category = list.header
			key := strings.ToLower(entry.Name)
			if i, dup := index[key]; dup {
				entries[i].Quantity += entry.Quantity
				entries[i].Commander = entries[i].Commander || entry.Commander
				continue
			}
			index[key] = len(entries)
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// cardList is one discovered card array plus the section header that
// encloses it in the document.
type cardList struct {
	items  []*docValue
	header string
}

// collectCardLists gathers every array whose elements all look like cards.
// A matching array is taken whole and not descended into.
func collectCardLists(root *docValue) []cardList {
	var lists []cardList
	var walk func(v *docValue, header string)
	walk = func(v *docValue, header string) {
		if v == nil {
			return
		}
		switch v.kind {
		case kindArray:
			if len(v.arr) > 0 && allCardLike(v.arr) {
				lists = append(lists, cardList{items: v.arr, header: header})
				return
			}
			for _, item := range v.arr {
				walk(item, header)
			}
		case kindObject:
			if h := v.field("header"); h != nil && h.kind == kindString && strings.TrimSpace(h.str) != "" {
				header = strings.TrimSpace(h.str)
			}
			for _, m := range v.members {
				walk(m.value, header)
			}
		}
	}
	walk(root, "")
	return lists
}

func allCardLike(items []*docValue) bool {
	for _, item := range items {
		if !isCardLike(item) {
			return false
		}
	}
	return true
}

func isCardLike(v *docValue) bool {
	switch v.kind {
	case kindString:
		s := strings.TrimSpace(v.str)
		return s != "" && !quantityPrefix.MatchString(s)
	case kindObject:
		if card := v.field("card"); card != nil && card.kind == kindObject {
			if name := card.field("name"); name != nil && name.kind == kindString {
				return true
			}
		}
		for _, key := range []string{"name", "cardName", "label", "sortname"} {
			if f := v.field(key); f != nil && f.kind == kindString {
				return !quantityPrefix.MatchString(strings.TrimSpace(f.str))
			}
		}
		if names := v.field("names"); names != nil && names.kind == kindArray {
			for _, n := range names.arr {
				if n.kind != kindString {
					return false
				}
			}
			return true
		}
	}
	return false
}

// normalizeEntry converts one discovered item into an Entry. Reports
// false for items that turn out not to name a card after all.
func normalizeEntry(v *docValue) (Entry, bool) {
	if v.kind == kindString {
		name := strings.TrimSpace(v.str)
		if name == "" || quantityPrefix.MatchString(name) {
			return Entry{}, false
		}
		return Entry{Name: name, Quantity: 1}, true
	}
	if v.kind != kindObject {
		return Entry{}, false
	}

	// A nested "card" object overrides the wrapper's fields.
	lookup := func(key string) *docValue {
		if card := v.field("card"); card != nil && card.kind == kindObject {
			if f := card.field(key); f != nil {
				return f
			}
		}
		return v.field(key)
	}

	var name string
	for _, key := range []string{"name", "cardName", "card_name", "label", "title"} {
		f := lookup(key)
		if f == nil || f.kind != kindString {
			continue
		}
		trimmed := strings.TrimSpace(f.str)
		if trimmed == "" {
			continue
		}
		if quantityPrefix.MatchString(trimmed) {
			return Entry{}, false
		}
		name = trimmed
		break
	}
	if name == "" {
		if names := lookup("names"); names != nil && names.kind == kindArray {
			var faces []string
			for _, n := range names.arr {
				if n.kind == kindString && strings.TrimSpace(n.str) != "" {
					faces = append(faces, strings.TrimSpace(n.str))
				}
			}
			if len(faces) > 0 {
				name = strings.Join(faces, " // ")
			}
		}
	}
	if name == "" {
		return Entry{}, false
	}

	qty := 1
	for _, key := range []string{"qty", "quantity", "count", "copies", "amount", "q"} {
		f := lookup(key)
		if f == nil {
			continue
		}
		if n, ok := coerceInt(f); ok {
			qty = n
			break
		}
	}
	if qty < 1 {
		qty = 1
	}

	commander := false
	for _, key := range []string{"isCommander", "is_commander", "commander"} {
		if f := lookup(key); f != nil && f.kind == kindBool {
			commander = commander || f.boolean
		}
	}

	return Entry{Name: name, Quantity: qty, Commander: commander}, true
}

func coerceInt(v *docValue) (int, bool) {
	switch v.kind {
	case kindNumber:
		return int(v.num), true
	case kindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// docValue is a parsed JSON value that preserves object member order.
// encoding/json maps discard it, but document order decides which
// discovered card list comes first, so the walk must see members in
// page order.
type docValue struct {
	kind    docKind
	str     string
	num     float64
	boolean bool
	arr     []*docValue
	members []docMember
}

type docMember struct {
	key   string
	value *docValue
}

type docKind int

const (
	kindNull docKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

func (v *docValue) field(key string) *docValue {
	if v == nil || v.kind != kindObject {
		return nil
	}
	for _, m := range v.members {
		if m.key == key {
			return m.value
		}
	}
	return nil
}

func parseDocument(data []byte) (*docValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parse page payload: %w", err)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*docValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &docValue{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.members = append(obj.members, docMember{key: key, value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &docValue{kind: kindArray}
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr.arr = append(arr.arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return &docValue{kind: kindString, str: t}, nil
	case float64:
		return &docValue{kind: kindNumber, num: t}, nil
	case bool:
		return &docValue{kind: kindBool, boolean: t}, nil
	case nil:
		return &docValue{kind: kindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

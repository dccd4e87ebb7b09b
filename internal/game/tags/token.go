// Package tags extracts and applies the bracketed command tags the
// narrator embeds in its prose, such as [ITEM: Espada|weapon|mainHand]
// or [REWARD: 50|10].
package tags

import "strings"

// Kind names a recognized tag type.
type Kind string

const (
	KindItem   Kind = "ITEM"
	KindNPC    Kind = "NPC"
	KindQuest  Kind = "QUEST"
	KindReward Kind = "REWARD"
	KindCombat Kind = "COMBATE"
	KindShop   Kind = "LOJA"
)

var kinds = []Kind{KindItem, KindNPC, KindQuest, KindReward, KindCombat, KindShop}

// minFields is the required field count per tag kind; extra trailing
// fields are optional.
var minFields = map[Kind]int{
	KindItem:   1,
	KindNPC:    2,
	KindQuest:  3,
	KindReward: 2,
	KindCombat: 1,
	KindShop:   1,
}

// Tag is one well-formed tag occurrence with its trimmed fields.
type Tag struct {
	Kind   Kind
	Fields []string
}

// Field returns field i, or "" when the tag has fewer fields.
func (t Tag) Field(i int) string {
	if i < 0 || i >= len(t.Fields) {
		return ""
	}
	return t.Fields[i]
}

// span is one bracketed region whose keyword matched a known kind,
// well-formed or not.
type span struct {
	start, end int // byte offsets, end past the closing bracket
	tag        Tag
	valid      bool
}

// scan walks the text once and collects every bracketed region that opens
// with a known keyword and a colon. A region missing its closing bracket,
// or carrying too few non-empty leading fields, is marked invalid but its
// extent is still recorded so Strip can remove it.
func scan(text string) []span {
	var spans []span
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		kind, rest := matchKeyword(text[i+1:])
		if kind == "" {
			continue
		}
		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			break
		}
		body := rest[:closing]
		end := len(text) - len(rest) + closing + 1

		fields := splitFields(body)
		sp := span{start: i, end: end, tag: Tag{Kind: kind, Fields: fields}}
		sp.valid = len(fields) >= minFields[kind] && fields[0] != ""
		spans = append(spans, sp)
		i = end - 1
	}
	return spans
}

// matchKeyword reports which tag keyword (followed by a colon) begins the
// string, returning the remainder after the colon.
func matchKeyword(s string) (Kind, string) {
	for _, k := range kinds {
		n := len(k)
		if len(s) > n && strings.EqualFold(s[:n], string(k)) && s[n] == ':' {
			return k, s[n+1:]
		}
	}
	return "", ""
}

func splitFields(body string) []string {
	parts := strings.Split(body, "|")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

// Parse extracts every well-formed tag in document order. Malformed
// occurrences are skipped without affecting later tags.
func Parse(text string) []Tag {
	var out []Tag
	for _, sp := range scan(text) {
		if sp.valid {
			out = append(out, sp.tag)
		}
	}
	return out
}

// Strip removes every recognized tag region, well-formed or not, from the
// text for display.
func Strip(text string) string {
	spans := scan(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String()
}

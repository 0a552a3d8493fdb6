package html

import "strings"

type elementAction int

const (
	keepElement elementAction = iota
	foldElement
	dropElement
)

// Elements that execute code or change how the page loads. Script and
// style bodies are dropped with the element; the others keep their content.
var elementActions = map[string]elementAction{
	"script":   dropElement,
	"style":    dropElement,
	"template": dropElement,
	"iframe":   foldElement,
	"frame":    foldElement,
	"frameset": foldElement,
	"object":   foldElement,
	"embed":    foldElement,
	"applet":   foldElement,
	"base":     foldElement,
	"link":     foldElement,
	"meta":     foldElement,
	"noscript": foldElement,
	"svg":      foldElement,
	"math":     foldElement,
}

func elementPolicy(tag string) elementAction {
	return elementActions[tag]
}

// validTagName accepts [A-Za-z][A-Za-z0-9-]*.
func validTagName(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}

var urlAttributes = map[string]struct{}{
	"action":     {},
	"background": {},
	"cite":       {},
	"formaction": {},
	"href":       {},
	"longdesc":   {},
	"poster":     {},
	"src":        {},
	"srcset":     {},
	"xlink:href": {},
}

var safeSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
	"tel":    {},
}

func safeAttribute(name, value string) bool {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "on") || name == "style" {
		return false
	}
	if _, ok := urlAttributes[name]; ok {
		return safeURL(value)
	}
	return true
}

// safeURL accepts relative URLs and the schemes in safeSchemes. Browsers
// ignore whitespace and control characters inside schemes, so they are
// stripped before the check.
func safeURL(value string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, value)

	end := strings.IndexAny(cleaned, ":/?#")
	if end < 0 || cleaned[end] != ':' {
		return true
	}
	_, ok := safeSchemes[strings.ToLower(cleaned[:end])]
	return ok
}

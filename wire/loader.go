package wire

import (
	"errors"
	"sort"

	"github.com/go-boxon/boxon/bitio"
	"github.com/go-boxon/boxon/match"
)

var errNoTemplateFound = errors.New("wire: no registered template header found in the remaining bytes")

// Loader recognizes which registered Template a message belongs to by
// searching for each template's literal header pattern, resynchronizing
// past unrecognized bytes the same way a line-oriented parser skips noise
// between frames.
type Loader struct {
	templates []*Template
}

// NewLoader returns a Loader over templates, tried longest-pattern-first so
// that a template whose header is a strict prefix of another's never steals
// a match that belongs to the more specific one.
func NewLoader(templates ...*Template) *Loader {
	ts := append([]*Template(nil), templates...)
	sort.SliceStable(ts, func(i, j int) bool {
		return len(ts[i].Start) > len(ts[j].Start)
	})
	return &Loader{templates: ts}
}

// FindTemplate searches r's backing bytes, starting at r's current
// position, for the earliest occurrence of any registered template's Start
// pattern. On success it seeks r to that occurrence and returns the
// template and the byte offset found. Templates with no declared Start
// pattern are never matched this way and must be registered alone.
func (l *Loader) FindTemplate(r *bitio.Reader) (*Template, int64, error) {
	data := r.Bytes()
	from := int(r.Position() / 8)

	best := -1
	var bestTpl *Template
	for _, tpl := range l.templates {
		if len(tpl.Start) == 0 {
			continue
		}
		state := match.Default.Preprocess(tpl.Start)
		idx := match.Default.IndexOf(data, from, tpl.Start, state)
		if idx == -1 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(tpl.Start) > len(bestTpl.Start)) {
			best = idx
			bestTpl = tpl
		}
	}
	if bestTpl == nil {
		return nil, -1, errNoTemplateFound
	}
	if err := r.Seek(int64(best) * 8); err != nil {
		return nil, -1, err
	}
	return bestTpl, int64(best), nil
}

package core

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/internal/analyzer"
	"github.com/oakwood-commons/kvlens/internal/detail"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/navigator"
	"github.com/oakwood-commons/kvlens/internal/search"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Session explores one document. It owns the active query, the filtered
// tree derived from it, the analysis of that tree and the navigator rooted
// at it. A Session is not safe for concurrent use.
type Session struct {
	engine  *Engine
	log     logr.Logger
	doc     *value.Value
	search  search.Result
	fields  analyzer.Result
	summary analyzer.Summary
	nav     *navigator.Navigator
}

// NewSession starts a session on doc with no query applied.
func (e *Engine) NewSession(doc *value.Value) *Session {
	s := &Session{
		engine: e,
		log:    e.Logger.WithName("session"),
	}
	s.nav = navigator.New(doc,
		navigator.WithBounds(e.Bounds),
		navigator.WithColumnCache(e.ColumnCache),
		navigator.WithStrict(e.Strict),
		navigator.WithLogger(e.Logger.WithName("navigator")),
	)
	s.SetDocument(doc)
	return s
}

// SetDocument replaces the document and clears the query and selection.
func (s *Session) SetDocument(doc *value.Value) {
	s.doc = doc
	s.apply("")
}

// SetQuery filters the document by query, re-roots the navigator at the
// filtered tree and recomputes the analysis. The selection is cleared.
func (s *Session) SetQuery(query string) {
	s.apply(query)
}

func (s *Session) apply(query string) {
	s.search = search.Filter(s.doc, query,
		search.WithBounds(s.engine.Bounds),
		search.WithLogger(s.engine.Logger.WithName("search")),
	)
	s.fields = analyzer.Analyze(s.search.Root,
		analyzer.WithBounds(s.engine.Bounds),
		analyzer.WithLogger(s.engine.Logger.WithName("analyzer")),
	)
	s.summary = analyzer.Summarize(s.fields)
	s.nav.Reset(s.search.Root)
	s.log.V(1).Info("session updated", "query", query, "matched", s.search.Matched, "fields", s.summary.Total)
}

// Document returns the unfiltered document.
func (s *Session) Document() *value.Value { return s.doc }

// Root returns the tree being explored: the filtered document while a query
// matches, the document otherwise.
func (s *Session) Root() *value.Value { return s.search.Root }

// Query returns the active query.
func (s *Session) Query() string { return s.search.Query }

// Search returns the outcome of the active query.
func (s *Session) Search() search.Result { return s.search }

// Summary returns the type counts of the explored tree.
func (s *Session) Summary() analyzer.Summary { return s.summary.Clone() }

// Fields returns every classified node of the explored tree in document
// order.
func (s *Session) Fields() analyzer.Result { return s.fields }

// State returns a snapshot of the navigation state.
func (s *Session) State() navigator.State { return s.nav.State() }

// Navigator exposes the session's navigator.
func (s *Session) Navigator() *navigator.Navigator { return s.nav }

// OnSelect registers a selection listener. Listeners survive document and
// query changes.
func (s *Session) OnSelect(l navigator.Listener) { s.nav.OnSelect(l) }

// Select selects node in column columnIndex.
func (s *Session) Select(columnIndex int, node navigator.PathNode) error {
	return s.nav.Select(columnIndex, node)
}

// SelectKey selects the entry named key in column columnIndex.
func (s *Session) SelectKey(columnIndex int, key string) error {
	return s.nav.SelectKey(columnIndex, key)
}

// SelectPath replays p from the root, one column per segment.
func (s *Session) SelectPath(p jsonpath.Path) error {
	return s.nav.SelectPath(p)
}

// Detail describes the current selection, or the explored root when
// nothing is selected.
func (s *Session) Detail() (detail.Detail, error) {
	if node, ok := s.nav.Current(); ok {
		return detail.Build(node.Path, node.Value)
	}
	return detail.Build(nil, s.search.Root)
}

// Evaluate runs expr against the explored tree.
func (s *Session) Evaluate(expr string) (*value.Value, error) {
	return s.engine.Evaluate(expr, s.search.Root)
}

package bleve_indexer

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/noelzubin/clients_search/client"
	"github.com/noelzubin/clients_search/search"
	"github.com/samber/lo"

	bleveSearch "github.com/blevesearch/bleve/v2/search"
)

// analyzerName splits on word boundaries and lowercases, keeping stop
// words so every word of a name or postcode is searchable.
const analyzerName = "client"

// DefaultNameBoost is how much heavier name matches weigh than other fields.
const DefaultNameBoost = 10.0

// Indexed field paths.
const (
	fieldName       = "name"
	fieldDOB        = "dob"
	fieldPostcode   = "postcode"
	fieldAccountNum = "accountNum"
)

// fieldPaths maps a search field to the indexed field it is scoped to.
var fieldPaths = map[search.Field]string{
	search.Name:     fieldName,
	search.Postcode: fieldPostcode,
}

// Options tunes index construction.
type Options struct {
	NameBoost float64 // weight of name matches, DefaultNameBoost when zero
}

// bleveIndexer is the implementation of the ClientIndexer
// interface which uses an in-memory bleve index.
type bleveIndexer struct {
	mu        sync.RWMutex
	index     bleve.Index
	terms     func(text string) []string
	size      int
	nameBoost float64
}

// Build indexes every record of store and returns the finished index.
// The index is never modified afterwards; a new snapshot needs a new Build.
func Build(store *client.Store) (*bleveIndexer, error) {
	return BuildWithOptions(store, Options{})
}

// BuildWithOptions is Build with explicit options.
func BuildWithOptions(store *client.Store, opts Options) (*bleveIndexer, error) {
	records := store.All()
	if err := client.Validate(records); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	if opts.NameBoost <= 0 {
		opts.NameBoost = DefaultNameBoost
	}

	indexMapping, err := newIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build index mapping: %w", err)
	}

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, r := range records {
		if err := batch.Index(r.AccountNum, toDocument(r)); err != nil {
			index.Close()
			return nil, fmt.Errorf("index record %s: %w", r.AccountNum, err)
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("index batch: %w", err)
		}
	}

	a := index.Mapping().AnalyzerNamed(analyzerName)
	if a == nil {
		index.Close()
		return nil, fmt.Errorf("analyzer %q not registered", analyzerName)
	}
	terms := func(text string) []string {
		var out []string
		for _, token := range a.Analyze([]byte(text)) {
			out = append(out, string(token.Term))
		}
		return out
	}

	return &bleveIndexer{
		index:     index,
		terms:     terms,
		size:      len(records),
		nameBoost: opts.NameBoost,
	}, nil
}

// Builder returns a constructor producing ClientIndexers with opts.
func Builder(opts Options) func(store *client.Store) (search.ClientIndexer, error) {
	return func(store *client.Store) (search.ClientIndexer, error) {
		idx, err := BuildWithOptions(store, opts)
		if err != nil {
			return nil, err
		}
		return idx, nil
	}
}

// newIndexMapping maps the four record fields as text analyzed with the
// client analyzer. Nothing else is indexed or stored.
func newIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	doc := bleve.NewDocumentStaticMapping()
	for _, field := range []string{fieldName, fieldDOB, fieldPostcode, fieldAccountNum} {
		textField := bleve.NewTextFieldMapping()
		textField.Analyzer = analyzerName
		textField.Store = false
		textField.IncludeInAll = false
		doc.AddFieldMappingsAt(field, textField)
	}

	indexMapping.DefaultMapping = doc
	indexMapping.DefaultAnalyzer = analyzerName

	return indexMapping, nil
}

func toDocument(r client.Record) map[string]interface{} {
	return map[string]interface{}{
		fieldName:       r.Name,
		fieldDOB:        r.DOB,
		fieldPostcode:   r.Postcode,
		fieldAccountNum: r.AccountNum,
	}
}

// Search runs q against the single field it names.
//
// The term goes through the index analyzer, so characters with meaning
// to wildcard syntax are dropped. Every remaining token must appear
// somewhere inside one of the field's terms.
func (s *bleveIndexer) Search(q search.Query) ([]search.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, search.ErrIndexClosed
	}

	bleveQuery, ok, err := s.buildQuery(q)
	if err != nil {
		return nil, err
	}
	if !ok || s.size == 0 {
		return []search.Hit{}, nil
	}

	request := bleve.NewSearchRequestOptions(bleveQuery, s.size, 0, false)
	result, err := s.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q, err)
	}

	return lo.Map(result.Hits, func(hit *bleveSearch.DocumentMatch, _ int) search.Hit {
		return search.Hit{Ref: hit.ID, Score: hit.Score}
	}), nil
}

// buildQuery turns q into a conjunction of infix wildcard queries.
// ok is false when the term holds no searchable tokens.
func (s *bleveIndexer) buildQuery(q search.Query) (query.Query, bool, error) {
	path, found := fieldPaths[q.Field]
	if !found {
		return nil, false, fmt.Errorf("%w: %s", search.ErrUnknownField, q.Field)
	}
	if q.Op != search.Contains {
		return nil, false, fmt.Errorf("unsupported operator %s", q.Op)
	}

	boost := 1.0
	if q.Field == search.Name {
		boost = s.nameBoost
	}

	terms := lo.Uniq(s.terms(q.Term))
	if len(terms) == 0 {
		return nil, false, nil
	}

	clauses := lo.Map(terms, func(term string, _ int) query.Query {
		wildcard := bleve.NewWildcardQuery("*" + term + "*")
		wildcard.SetField(path)
		wildcard.SetBoost(boost)
		return wildcard
	})

	if len(clauses) == 1 {
		return clauses[0], true, nil
	}
	return bleve.NewConjunctionQuery(clauses...), true, nil
}

// DocCount returns the number of indexed records.
func (s *bleveIndexer) DocCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return 0, search.ErrIndexClosed
	}
	return s.index.DocCount()
}

// Close releases the index. Searches after Close fail with ErrIndexClosed.
func (s *bleveIndexer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

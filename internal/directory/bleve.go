// Package directory provides full-text search over people by display name
// and interest tags, so clients can find a person id before asking the
// engine for matches.
package directory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hyperjump/musubi/internal/models"
)

// Index is a Bleve-backed person directory.
type Index struct {
	index bleve.Index
}

// entry is the indexed shape of a person.
type entry struct {
	Name      string `json:"name"`
	Interests string `json:"interests"`
}

func indexMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so interest
	// tags match exactly as typed.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("interests", textFieldMapping)
	im.AddDocumentMapping("person", docMapping)
	im.DefaultType = "person"
	im.DefaultMapping = docMapping
	return im
}

// NewIndex creates or opens a person directory at path.
func NewIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open directory index: %w", openErr)
		}
		return &Index{index: index}, nil
	}
	index, err := bleve.New(path, indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create directory index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewMemIndex creates an in-memory directory, used by tests.
func NewMemIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory directory index: %w", err)
	}
	return &Index{index: index}, nil
}

// Index adds or updates a person in the directory.
func (d *Index) Index(p *models.Person) error {
	return d.index.Index(p.ID, entry{
		Name:      p.DisplayName,
		Interests: strings.Join(p.Interests, " "),
	})
}

// Search runs a match query over names and interests and returns up to
// limit hits ordered by score.
func (d *Index) Search(ctx context.Context, query string, limit int) ([]models.DirectoryHit, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := d.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directory search failed: %w", err)
	}
	hits := make([]models.DirectoryHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, models.DirectoryHit{PersonID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Delete removes a person from the directory.
func (d *Index) Delete(id string) error {
	return d.index.Delete(id)
}

// Close closes the underlying index.
func (d *Index) Close() error {
	return d.index.Close()
}

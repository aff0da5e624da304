package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/sweetlab/sweet_shop/internal/models"
)

var ErrUnavailable = errors.New("search index is not configured")

// Index mirrors sweets into Elasticsearch for fuzzy lookup. A nil Index (or
// one without a client) is a no-op mirror and an unavailable searcher.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func (i *Index) enabled() bool {
	return i != nil && i.ES != nil
}

func (i *Index) IndexSweet(ctx context.Context, s *models.Sweet) error {
	if !i.enabled() {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("index sweet: %w", err)
	}

	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(data),
		i.ES.Index.WithDocumentID(s.ID.String()),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index sweet: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index sweet: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteSweet(ctx context.Context, id string) error {
	if !i.enabled() {
		return nil
	}

	res, err := i.ES.Delete(i.Name, id, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete sweet from index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete sweet from index: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-field query over indexed sweets.
func (i *Index) Search(ctx context.Context, query string, size int) ([]models.Sweet, error) {
	if !i.enabled() {
		return nil, ErrUnavailable
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Sweet `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	sweets := make([]models.Sweet, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		sweets[n] = hit.Source
	}
	return sweets, nil
}

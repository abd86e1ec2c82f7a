// Package search mirrors projects into Elasticsearch and queries them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/portfolio/internal/models"
)

var ErrUnavailable = errors.New("search is not configured")

func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

func (ix *Index) enabled() bool {
	return ix != nil && ix.ES != nil
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"title":       map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"details":     map[string]any{"type": "text"},
			"learned":     map[string]any{"type": "text"},
			"skills":      map[string]any{"type": "keyword"},
			"status":      map[string]any{"type": "keyword"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	if !ix.enabled() {
		return ErrUnavailable
	}
	res, err := ix.ES.Indices.Exists([]string{ix.Name}, ix.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encodeBody(indexMapping)
	if err != nil {
		return err
	}
	res, err = ix.ES.Indices.Create(ix.Name, ix.ES.Indices.Create.WithBody(body), ix.ES.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: create index: %s", res.Status())
	}
	return nil
}

func (ix *Index) IndexProject(ctx context.Context, p *models.Project) error {
	if !ix.enabled() {
		return ErrUnavailable
	}
	body, err := encodeBody(p)
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(ix.Name, body,
		ix.ES.Index.WithDocumentID(p.ID),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index %s: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *Index) DeleteProject(ctx context.Context, id string) error {
	if !ix.enabled() {
		return ErrUnavailable
	}
	res, err := ix.ES.Delete(ix.Name, id, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch: delete %s: %s", id, res.Status())
	}
	return nil
}

func buildQuery(q string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "description^2", "details", "learned", "skills"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func (ix *Index) Search(ctx context.Context, q string, from, size int) (int64, []models.Project, error) {
	if !ix.enabled() {
		return 0, nil, ErrUnavailable
	}
	body, err := encodeBody(buildQuery(q, from, size))
	if err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(body),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("elasticsearch: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Project `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode search: %w", err)
	}

	out := make([]models.Project, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		out[i] = hit.Source
	}
	return r.Hits.Total.Value, out, nil
}

func (ix *Index) Ping(ctx context.Context) error {
	if !ix.enabled() {
		return ErrUnavailable
	}
	res, err := ix.ES.Ping(ix.ES.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: ping: %s", res.Status())
	}
	return nil
}

func encodeBody(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("elasticsearch: encode body: %w", err)
	}
	return &buf, nil
}

// Page turns 1-based page/size query values into an offset and a bounded limit.
func Page(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return (page - 1) * size, size
}

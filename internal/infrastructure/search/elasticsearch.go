// Package search mirrors users and reviews into Elasticsearch and queries them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/classical-review/internal/domain/entity"
)

const defaultTimeout = 3 * time.Second

// Index implements application.UserIndexer, application.ReviewIndexer and
// application.FullTextSearcher.
type Index struct {
	es           *elasticsearch.Client
	usersIndex   string
	reviewsIndex string
	timeout      time.Duration
}

func NewIndex(es *elasticsearch.Client, usersIndex, reviewsIndex string) *Index {
	return &Index{es: es, usersIndex: usersIndex, reviewsIndex: reviewsIndex, timeout: defaultTimeout}
}

// userDoc holds public profile fields only; email and password never leave Postgres.
type userDoc struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	AverageReview float64   `json:"average_review"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
}

type reviewDoc struct {
	ID            string    `json:"id"`
	CompositionID string    `json:"composition_id"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	NumLiked      int       `json:"num_liked"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (i *Index) IndexUser(ctx context.Context, u *entity.User) error {
	return i.put(ctx, i.usersIndex, u.ID, userDoc{
		ID:            u.ID,
		Username:      u.Username,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		AverageReview: u.AverageReview,
		TotalReviews:  u.TotalReviews,
		CreatedAt:     u.CreatedAt,
	})
}

func (i *Index) IndexReview(ctx context.Context, r *entity.Review) error {
	doc := reviewDoc{
		ID:            r.ID,
		CompositionID: r.CompositionID,
		UserID:        r.UserID,
		Rating:        r.Rating,
		NumLiked:      r.NumLiked,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	return i.put(ctx, i.reviewsIndex, r.ID, doc)
}

// DeleteReview removes a review document; a missing document is not an error.
func (i *Index) DeleteReview(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: i.reviewsIndex, DocumentID: id}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("elasticsearch delete %s/%s: %w", i.reviewsIndex, id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch delete %s/%s: %s", i.reviewsIndex, id, res.Status())
	}
	return nil
}

// SearchUsers matches username (boosted) and bio.
func (i *Index) SearchUsers(ctx context.Context, q string, limit int) ([]entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"username^2", "bio"},
				"fuzziness": "AUTO",
			},
		},
		"size": clampSize(limit),
	}
	var docs []userDoc
	if err := i.search(ctx, i.usersIndex, query, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.User{
			ID:            d.ID,
			Username:      d.Username,
			Bio:           d.Bio,
			AvatarURL:     d.AvatarURL,
			AverageReview: d.AverageReview,
			TotalReviews:  d.TotalReviews,
			CreatedAt:     d.CreatedAt,
		})
	}
	return out, nil
}

// SearchReviews matches review comments.
func (i *Index) SearchReviews(ctx context.Context, q string, limit int) ([]entity.Review, error) {
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"comment": map[string]any{"query": q, "fuzziness": "AUTO"},
			},
		},
		"size": clampSize(limit),
	}
	var docs []reviewDoc
	if err := i.search(ctx, i.reviewsIndex, query, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Review, 0, len(docs))
	for _, d := range docs {
		rv := entity.Review{
			ID:            d.ID,
			CompositionID: d.CompositionID,
			UserID:        d.UserID,
			Rating:        d.Rating,
			NumLiked:      d.NumLiked,
			CreatedAt:     d.CreatedAt,
			UpdatedAt:     d.UpdatedAt,
		}
		if d.Comment != "" {
			comment := d.Comment
			rv.Comment = &comment
		}
		out = append(out, rv)
	}
	return out, nil
}

func (i *Index) put(ctx context.Context, index, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("elasticsearch index %s/%s: %w", index, id, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("elasticsearch index %s/%s: %s", index, id, res.Status())
	}
	return nil
}

// search decodes the _source of every hit into out, which must point to a slice.
func (i *Index) search(ctx context.Context, index string, query map[string]any, out any) error {
	b, err := json.Marshal(query)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch search %s: %w", index, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("elasticsearch search %s: %s", index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("elasticsearch search %s: decode: %w", index, err)
	}

	sources := make([]json.RawMessage, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		sources = append(sources, h.Source)
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func clampSize(limit int) int {
	if limit <= 0 || limit > 50 {
		return 20
	}
	return limit
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// openAlexWorksURL is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksURL = "https://api.openalex.org/works"

const (
	defaultOpenAlexPerPage = 50
	maxOpenAlexPerPage     = 200
)

// OpenAlexLoader builds a corpus from an OpenAlex works search. Records use
// OpenAlex field names (publication_year, source), which Normalize reads
// as fallbacks.
type OpenAlexLoader struct {
	// Search is the free-text works search.
	Search string

	// PerPage caps the number of works fetched (default 50, max 200).
	PerPage int

	// Email is sent as the mailto parameter for polite pool access.
	Email string

	Client     *http.Client
	Config     types.HTTPConfig
	MaxRetries int
}

// Load implements Loader.
func (o OpenAlexLoader) Load(ctx context.Context) ([]Record, error) {
	search := strings.TrimSpace(o.Search)
	if search == "" {
		return nil, fmt.Errorf("empty OpenAlex search")
	}

	perPage := o.PerPage
	if perPage <= 0 {
		perPage = defaultOpenAlexPerPage
	}
	perPage = min(perPage, maxOpenAlexPerPage)

	params := url.Values{
		"search":   {search},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexWorksURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if o.Config.UserAgent != "" {
		req.Header.Set("User-Agent", o.Config.UserAgent)
	}

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: o.Config.Timeout}
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, o.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	records := make([]Record, 0, len(oar.Results))
	for _, work := range oar.Results {
		records = append(records, work.record())
	}
	return records, nil
}

// record maps a work onto raw record fields. Missing values are left out
// so Normalize applies its placeholders.
func (w openAlexWork) record() Record {
	r := Record{
		"title":     w.Title,
		"citations": w.CitedByCount,
	}
	if abstract := reconstructAbstract(w.AbstractInvertedIndex); abstract != "" {
		r["abstract"] = abstract
	}

	authors := make([]any, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}
	r["authors"] = authors

	keywords := make([]any, 0, len(w.Keywords))
	for _, k := range w.Keywords {
		if k.DisplayName != "" {
			keywords = append(keywords, k.DisplayName)
		}
	}
	r["keywords"] = keywords

	if w.PublicationYear > 0 {
		r["publication_year"] = w.PublicationYear
	}
	if w.PrimaryLocation.Source.DisplayName != "" {
		r["source"] = w.PrimaryLocation.Source.DisplayName
	}
	switch {
	case w.DOI != "":
		r["url"] = w.DOI
	case w.PrimaryLocation.LandingPageURL != "":
		r["url"] = w.PrimaryLocation.LandingPageURL
	case w.ID != "":
		r["url"] = w.ID
	}
	return r
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	Keywords              []openAlexKeyword    `json:"keywords"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
	Source         struct {
		DisplayName string `json:"display_name"`
	} `json:"source"`
}

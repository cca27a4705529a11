// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sort"

	kivik "github.com/go-kivik/kivik/v4"

	"pagecraft/internal/repo"
)

type designDoc struct {
	ID       string          `json:"_id"`
	Rev      string          `json:"_rev,omitempty"`
	Language string          `json:"language"`
	Views    map[string]view `json:"views"`
}

type view struct {
	Map    string `json:"map"`
	Reduce string `json:"reduce,omitempty"`
}

// tokenizeJS mirrors repo.SearchTokens in the view language: lowercase,
// split on non-alphanumeric runs, drop tokens of length <= 1. The two
// tokenizers must stay in lockstep or indexed search silently misses.
const tokenizeJS = `
  function tokens(text) {
    var out = {};
    var parts = (text || '').toLowerCase().split(/[^a-z0-9]+/);
    for (var i = 0; i < parts.length; i++) {
      if (parts[i].length > 1) { out[parts[i]] = true; }
    }
    return out;
  }`

// slugJS normalizes a display name the way slug.Generate does, so the
// by_category/by_tag keys match slugs computed on the Go side.
const slugJS = `
  function slugOf(name) {
    return (name || '').toLowerCase().trim()
      .replace(/[^a-z0-9\s-]/g, '')
      .replace(/\s+/g, '-')
      .replace(/-+/g, '-')
      .replace(/^-+|-+$/g, '');
  }`

func designDocs() []designDoc {
	return []designDoc{
		{
			ID:       "_design/pages",
			Language: "javascript",
			Views: map[string]view{
				"by_created": {Map: `function(doc) {
  if (doc.type === 'page') { emit(doc.created_at, null); }
}`},
				"by_status": {Map: `function(doc) {
  if (doc.type === 'page') { emit([doc.status, doc.created_at], null); }
}`},
				"search": {Map: `function(doc) {
  if (doc.type !== 'page') { return; }` + tokenizeJS + `
  var text = doc.title + ' ' + doc.slug + ' ' + (doc.meta ? doc.meta.title + ' ' + doc.meta.description + ' ' + doc.meta.keywords : '');
  for (var i = 0; i < (doc.blocks || []).length; i++) {
    for (var f in doc.blocks[i].fields) { text += ' ' + doc.blocks[i].fields[f]; }
  }
  var seen = tokens(text);
  for (var t in seen) { emit(t, null); }
}`},
			},
		},
		{
			ID:       "_design/posts",
			Language: "javascript",
			Views: map[string]view{
				"by_created": {Map: `function(doc) {
  if (doc.type === 'post') { emit(doc.created_at, null); }
}`},
				"by_status": {Map: `function(doc) {
  if (doc.type === 'post') { emit([doc.status, doc.created_at], null); }
}`},
				"by_author": {Map: `function(doc) {
  if (doc.type === 'post') { emit([doc.author, doc.created_at], null); }
}`},
				"by_category": {Map: `function(doc) {
  if (doc.type !== 'post') { return; }` + slugJS + `
  for (var i = 0; i < (doc.categories || []).length; i++) {
    emit([slugOf(doc.categories[i]), doc.created_at], null);
  }
}`},
				"by_tag": {Map: `function(doc) {
  if (doc.type !== 'post') { return; }` + slugJS + `
  for (var i = 0; i < (doc.tags || []).length; i++) {
    emit([slugOf(doc.tags[i]), doc.created_at], null);
  }
}`},
				"categories": {Map: `function(doc) {
  if (doc.type !== 'post') { return; }
  for (var i = 0; i < (doc.categories || []).length; i++) {
    emit(doc.categories[i], 1);
  }
}`, Reduce: "_sum"},
				"tags": {Map: `function(doc) {
  if (doc.type !== 'post') { return; }
  for (var i = 0; i < (doc.tags || []).length; i++) {
    emit(doc.tags[i], 1);
  }
}`, Reduce: "_sum"},
				"search": {Map: `function(doc) {
  if (doc.type !== 'post') { return; }` + tokenizeJS + `
  var text = doc.title + ' ' + doc.slug + ' ' + (doc.excerpt || '') + ' ' + (doc.categories || []).join(' ') + ' ' + (doc.tags || []).join(' ') + ' ' + (doc.meta ? doc.meta.title + ' ' + doc.meta.description + ' ' + doc.meta.keywords : '');
  for (var i = 0; i < (doc.blocks || []).length; i++) {
    for (var f in doc.blocks[i].fields) { text += ' ' + doc.blocks[i].fields[f]; }
  }
  var seen = tokens(text);
  for (var t in seen) { emit(t, null); }
}`},
			},
		},
		{
			ID:       "_design/media",
			Language: "javascript",
			Views: map[string]view{
				"by_created": {Map: `function(doc) {
  if (doc.type === 'media') { emit(doc.created_at, null); }
}`},
			},
		},
		{
			ID:       "_design/users",
			Language: "javascript",
			Views: map[string]view{
				"by_created": {Map: `function(doc) {
  if (doc.type === 'user') { emit(doc.created_at, null); }
}`},
			},
		},
		{
			ID:       "_design/contacts",
			Language: "javascript",
			Views: map[string]view{
				"by_created": {Map: `function(doc) {
  if (doc.type === 'contact') { emit(doc.created_at, null); }
}`},
				"by_status": {Map: `function(doc) {
  if (doc.type === 'contact') { emit([doc.status, doc.created_at], null); }
}`},
			},
		},
	}
}

// ensureDesignDocs installs or updates the design documents. Unchanged
// documents are left alone so CouchDB does not rebuild their indexes.
func (c *Client) ensureDesignDocs(ctx context.Context) error {
	for _, want := range designDocs() {
		var current designDoc
		err := c.db.Get(ctx, want.ID).ScanDoc(&current)
		switch {
		case err == nil:
			if reflect.DeepEqual(current.Views, want.Views) {
				continue
			}
			want.Rev = current.Rev
		case kivik.HTTPStatus(err) == http.StatusNotFound:
			// first install
		default:
			return fmt.Errorf("design doc %s: %w", want.ID, err)
		}
		if _, err := c.db.Put(ctx, want.ID, want); err != nil {
			return fmt.Errorf("design doc %s: %w", want.ID, err)
		}
	}
	return nil
}

// queryView runs a MapReduce view with the given CouchDB query params.
func (c *Client) queryView(ctx context.Context, design, name string, params map[string]interface{}) *kivik.ResultSet {
	return c.db.Query(ctx, "_design/"+design, name, kivik.Params(params))
}

// fetchDocs loads a known set of documents in one round trip.
func (c *Client) fetchDocs(ctx context.Context, ids []string) *kivik.ResultSet {
	return c.db.AllDocs(ctx, kivik.Params(map[string]interface{}{
		"keys":         ids,
		"include_docs": true,
	}))
}

// listParams translates ListOptions into CouchDB pagination params.
func listParams(opts repo.ListOptions) map[string]interface{} {
	opts = opts.Normalize()
	p := map[string]interface{}{
		"include_docs": true,
		"limit":        opts.Limit,
		"skip":         opts.Offset,
	}
	if opts.Descending {
		p["descending"] = true
	}
	return p
}

// rangeParams restricts a composite-key view ([prefix, created_at]) to
// one prefix value. Descending queries swap the bounds, as CouchDB
// requires.
func rangeParams(prefix interface{}, opts repo.ListOptions) map[string]interface{} {
	p := listParams(opts)
	low := []interface{}{prefix}
	high := []interface{}{prefix, map[string]interface{}{}}
	if opts.Descending {
		p["startkey"], p["endkey"] = high, low
	} else {
		p["startkey"], p["endkey"] = low, high
	}
	return p
}

// searchIDs resolves a free-text query against an entity's token view:
// each token is a prefix range over the lexicographic index, and the
// per-token ID sets are intersected. The intersected result is sorted
// so pagination in the callers is stable.
func (c *Client) searchIDs(ctx context.Context, design, query string) ([]string, error) {
	tokens := repo.SearchTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var matched map[string]bool
	for _, tok := range tokens {
		rows := c.queryView(ctx, design, "search", map[string]interface{}{
			"startkey": tok,
			"endkey":   tok + "￰",
		})
		ids := map[string]bool{}
		for rows.Next() {
			id, err := rows.ID()
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("search %s: %w", design, err)
			}
			ids[id] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("search %s: %w", design, err)
		}
		rows.Close()

		if matched == nil {
			matched = ids
		} else {
			for id := range matched {
				if !ids[id] {
					delete(matched, id)
				}
			}
		}
		if len(matched) == 0 {
			return nil, nil
		}
	}

	out := make([]string, 0, len(matched))
	for id := range matched {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// pageWindow applies limit/offset pagination to an in-memory ID set.
// Search intersections cannot be paginated inside CouchDB, so the
// window is cut here after sorting.
func pageWindow(ids []string, opts repo.ListOptions) []string {
	opts = opts.Normalize()
	if opts.Offset >= len(ids) {
		return nil
	}
	ids = ids[opts.Offset:]
	if len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}
	return ids
}

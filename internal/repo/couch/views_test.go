// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"reflect"
	"testing"

	"pagecraft/internal/repo"
)

func TestListParams(t *testing.T) {
	p := listParams(repo.ListOptions{})
	if p["limit"] != repo.DefaultLimit {
		t.Errorf("limit = %v, want default %d", p["limit"], repo.DefaultLimit)
	}
	if p["include_docs"] != true {
		t.Error("include_docs not set")
	}
	if _, ok := p["descending"]; ok {
		t.Error("descending set on ascending query")
	}

	p = listParams(repo.ListOptions{Limit: 10, Offset: 20, Descending: true})
	if p["limit"] != 10 || p["skip"] != 20 {
		t.Errorf("pagination = limit %v skip %v, want 10/20", p["limit"], p["skip"])
	}
	if p["descending"] != true {
		t.Error("descending not set")
	}
}

func TestRangeParamsSwapsBoundsWhenDescending(t *testing.T) {
	asc := rangeParams("published", repo.ListOptions{})
	wantLow := []interface{}{"published"}
	if !reflect.DeepEqual(asc["startkey"], wantLow) {
		t.Errorf("ascending startkey = %v, want %v", asc["startkey"], wantLow)
	}

	desc := rangeParams("published", repo.ListOptions{Descending: true})
	if !reflect.DeepEqual(desc["endkey"], wantLow) {
		t.Errorf("descending endkey = %v, want %v", desc["endkey"], wantLow)
	}
	high, ok := desc["startkey"].([]interface{})
	if !ok || len(high) != 2 || high[0] != "published" {
		t.Errorf("descending startkey = %v, want [published {}]", desc["startkey"])
	}
}

func TestPageWindow(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		opts repo.ListOptions
		want []string
	}{
		{"window inside", repo.ListOptions{Limit: 2, Offset: 1}, []string{"b", "c"}},
		{"offset past end", repo.ListOptions{Limit: 2, Offset: 10}, nil},
		{"limit past end", repo.ListOptions{Limit: 10, Offset: 3}, []string{"d", "e"}},
		{"default limit covers all", repo.ListOptions{}, ids},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pageWindow(ids, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pageWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDesignDocsCoverEveryEntity(t *testing.T) {
	byID := map[string]designDoc{}
	for _, d := range designDocs() {
		byID[d.ID] = d
	}
	for _, id := range []string{"_design/pages", "_design/posts", "_design/media", "_design/users", "_design/contacts"} {
		d, ok := byID[id]
		if !ok {
			t.Fatalf("missing design doc %s", id)
		}
		if _, ok := d.Views["by_created"]; !ok {
			t.Errorf("%s: missing by_created view", id)
		}
	}
	for _, v := range []string{"categories", "tags"} {
		if byID["_design/posts"].Views[v].Reduce != "_sum" {
			t.Errorf("posts %s view: want _sum reduce", v)
		}
	}
}

package core_test

import (
	"testing"

	"storen/internal/core"
)

func TestBuildQuery_Window(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		from, to int
	}{
		{"first page", 1, 8, 0, 7},
		{"second page", 2, 8, 8, 15},
		{"third page of ten", 3, 10, 20, 29},
		{"zero page clamps to first", 0, 8, 0, 7},
		{"zero size falls back to default", 1, 0, 0, core.DefaultPageSize - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := core.BuildQuery(core.QueryState{Page: tt.page, PageSize: tt.pageSize})
			if q.From != tt.from || q.To != tt.to {
				t.Errorf("window [%d,%d], expected [%d,%d]", q.From, q.To, tt.from, tt.to)
			}
		})
	}
}

func TestBuildQuery_Predicates(t *testing.T) {
	state := core.QueryState{Search: "wid", Category: "Tools", Page: 1, PageSize: 8}
	q := core.BuildQuery(state)
	if q.Search != "wid" {
		t.Errorf("search predicate lost: %q", q.Search)
	}
	if q.Category != "Tools" {
		t.Errorf("category predicate lost: %q", q.Category)
	}
	if q.Warehouse != "" {
		t.Errorf("absent warehouse filter must stay unconstrained, got %q", q.Warehouse)
	}
	if q.Limit() != 8 {
		t.Errorf("window size %d, expected 8", q.Limit())
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{17, 8, 3},
	}
	for _, tt := range tests {
		if got := core.TotalPages(tt.total, tt.size); got != tt.pages {
			t.Errorf("TotalPages(%d, %d) = %d, expected %d", tt.total, tt.size, got, tt.pages)
		}
	}
}

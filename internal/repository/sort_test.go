package repository_test

import (
	"testing"

	"github.com/bygglink/quote-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected repository.SortOrder
	}{
		{"asc lowercase", "asc", repository.SortOrderAsc},
		{"asc uppercase", "ASC", repository.SortOrderAsc},
		{"desc", "desc", repository.SortOrderDesc},
		{"empty defaults to desc", "", repository.SortOrderDesc},
		{"garbage defaults to desc", "sideways", repository.SortOrderDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repository.ParseSortOrder(tt.input))
		})
	}
}

func TestBuildOrderClause(t *testing.T) {
	fieldMap := map[string]string{
		"title":     "title",
		"updatedAt": "updated_at",
		"total":     "total",
	}

	tests := []struct {
		name     string
		config   repository.SortConfig
		expected string
	}{
		{
			"mapped field ascending",
			repository.SortConfig{Field: "title", Order: repository.SortOrderAsc},
			"title ASC",
		},
		{
			"mapped field descending",
			repository.SortConfig{Field: "updatedAt", Order: repository.SortOrderDesc},
			"updated_at DESC",
		},
		{
			"unknown field falls back to default column",
			repository.SortConfig{Field: "evil; DROP TABLE quotations", Order: repository.SortOrderAsc},
			"updated_at ASC",
		},
		{
			"empty field falls back to default column",
			repository.SortConfig{Field: "", Order: repository.SortOrderDesc},
			"updated_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repository.BuildOrderClause(tt.config, fieldMap, "updated_at"))
		})
	}
}

func TestDefaultSortConfig(t *testing.T) {
	config := repository.DefaultSortConfig()
	assert.Equal(t, "updatedAt", config.Field)
	assert.Equal(t, repository.SortOrderDesc, config.Order)
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		expectedPage int
		expectedSize int
	}{
		{"valid values pass through", 2, 50, 2, 50},
		{"zero page becomes one", 0, 50, 1, 50},
		{"negative page becomes one", -3, 50, 1, 50},
		{"zero page size gets default", 1, 0, 1, 20},
		{"oversized page size is clamped", 1, 10000, 1, repository.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := repository.NormalizePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedSize, pageSize)
		})
	}
}

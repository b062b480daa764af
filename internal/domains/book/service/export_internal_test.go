package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"book-catalog-api/internal/domain"
)

func TestWriteBooksFailsWithoutSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := writeBooks(f, []domain.Book{{ID: 1, Title: "Mort"}})
	assert.Error(t, err)
}

func TestWriteBooksFillsSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", exportSheet))

	book := domain.Book{ID: 7, Title: "Mort", AuthorBooks: []domain.AuthorBook{
		{Order: 1, Author: &domain.Author{Name: "Second"}},
		{Order: 0, Author: &domain.Author{Name: "First"}},
	}}
	require.NoError(t, writeBooks(f, []domain.Book{book}))

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Title", "Authors"},
		{"7", "Mort", "First, Second"},
	}, rows)
}

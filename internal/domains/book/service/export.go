package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"book-catalog-api/internal/domain"
)

const exportSheet = "Books"

var exportHeaders = []string{"ID", "Title", "Authors"}

// ExportBooks builds the workbook. The caller closes the returned file; on
// error it is closed here.
func (s *bookService) ExportBooks(ctx context.Context) (_ *excelize.File, err error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	if err = f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err = writeBooks(f, books); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return f, nil
}

func writeBooks(f *excelize.File, books []domain.Book) error {
	// Row 1: Header
	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "C1", style)
	}

	// Data rows start at row 2
	for i := range books {
		b := &books[i]
		names := make([]string, 0, len(b.AuthorBooks))
		for _, a := range b.Authors() {
			names = append(names, a.Name)
		}

		row := []interface{}{b.ID, b.Title, strings.Join(names, ", ")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

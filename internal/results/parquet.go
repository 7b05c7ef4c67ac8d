package results

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/parquet-go/parquet-go"
)

// Row is one letter/word/image association in a parquet export
type Row struct {
	Format   string `parquet:"format"`
	Letter   string `parquet:"letter"`
	Word     string `parquet:"word"`
	ImageURL string `parquet:"image_url"`
}

func saveParquet(path string, res models.Results) error {
	items := res.Items()
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row{
			Format:   string(res.Format),
			Letter:   item.Letter,
			Word:     item.Word,
			ImageURL: item.ImageURL,
		})
	}

	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}

	slog.Debug("Wrote parquet results", "path", path, "rows", len(rows))
	return nil
}

func loadParquet(path string) (models.Results, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return models.Results{}, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return fromRows(rows)
}

// fromRows rebuilds results, regrouping by letter in first-occurrence order.
// An empty file has no format column to read and loads as grouped.
func fromRows(rows []Row) (models.Results, error) {
	if len(rows) == 0 {
		return models.Results{Format: models.FormatGrouped}, nil
	}

	format, ok := models.ParseResultFormat(rows[0].Format)
	if !ok {
		return models.Results{}, fmt.Errorf("unknown result format %q in parquet file", rows[0].Format)
	}

	res := models.Results{Format: format}
	if format == models.FormatFlat {
		for _, row := range rows {
			res.Flat = append(res.Flat, models.ResultItem{Letter: row.Letter, Word: row.Word, ImageURL: row.ImageURL})
		}
		return res, nil
	}

	index := make(map[string]int)
	for _, row := range rows {
		i, seen := index[row.Letter]
		if !seen {
			i = len(res.Grouped)
			index[row.Letter] = i
			res.Grouped = append(res.Grouped, models.LetterWords{Letter: row.Letter})
		}
		res.Grouped[i].Words = append(res.Grouped[i].Words, models.Word{Word: row.Word, ImageURL: row.ImageURL})
	}
	return res, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/config"
	"github.com/RIT-ITS/DCVTool-sub002/internal/database"
	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
	"github.com/RIT-ITS/DCVTool-sub002/internal/logger"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

// Seeds the ASHRAE 62.1 Table 6-1 outdoor-air rate lookup from a spreadsheet.
// Expected columns: category_id, category, area_oa_rate, ppl_oa_rate,
// occ_density, occ_stdby_allowed; the first row is a header.
func main() {
	file := flag.String("file", "ashrae-62.1-table-6-1.xlsx", "spreadsheet to load")
	sheet := flag.String("sheet", "", "sheet name (default: first sheet)")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.Log.Level, "console", "load-ashrae")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Registry)
	if err != nil {
		log.Fatal("registry store connection failed", zap.Error(err))
	}
	defer db.Close()

	cats, err := readCategories(*file, *sheet)
	if err != nil {
		log.Fatal("spreadsheet read failed", zap.String("file", *file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := repository.NewReferenceRepo(db).ReplaceAshraeCategories(ctx, cats); err != nil {
		log.Fatal("category replace failed", zap.Error(err))
	}
	log.Info("ashrae categories loaded",
		zap.String("file", *file), zap.Int("rows", len(cats)))
}

func readCategories(path, sheet string) ([]*domain.AshraeCategory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	out := []*domain.AshraeCategory{}
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", i+2, len(row))
		}
		c, err := parseCategory(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("sheet %q produced no categories", sheet)
	}
	return out, nil
}

func parseCategory(row []string) (*domain.AshraeCategory, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad category_id %q", row[0])
	}
	area, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad area_oa_rate %q", row[2])
	}
	ppl, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad ppl_oa_rate %q", row[3])
	}
	density, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad occ_density %q", row[4])
	}
	stdby := 0
	switch strings.ToLower(strings.TrimSpace(row[5])) {
	case "1", "t", "true", "yes", "y":
		stdby = 1
	}

	return &domain.AshraeCategory{
		CategoryID:      id,
		Category:        strings.TrimSpace(row[1]),
		AreaOaRate:      area,
		PplOaRate:       ppl,
		OccDensity:      density,
		OccStdbyAllowed: stdby,
	}, nil
}

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/db"
)

var loadCSVPath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Create the dataset table and bulk-load rows from a CSV file",
	Long:  "Expects a CSV with a header row naming the dataset columns (country_name, latitude, longitude, date). Loads via the COPY protocol; requires the postgres driver.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		if cfg.Store.Driver != "postgres" {
			return eris.New("load requires store.driver=postgres")
		}

		rows, err := readDatasetCSV(loadCSVPath)
		if err != nil {
			return err
		}

		pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.EnsureTable(ctx, pool, cfg.Query.Table); err != nil {
			return err
		}

		n, err := db.CopyRows(ctx, pool, cfg.Query.Table, db.DatasetColumns, rows)
		if err != nil {
			return err
		}

		zap.L().Info("dataset loaded",
			zap.String("table", cfg.Query.Table),
			zap.Int64("rows", n))
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows into %s\n", n, cfg.Query.Table)
		return nil
	},
}

// readDatasetCSV reads a CSV whose header maps onto the dataset columns and
// returns rows in db.DatasetColumns order. Empty cells become NULLs;
// latitude and longitude are parsed as numbers.
func readDatasetCSV(path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "load: read header")
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	for _, col := range db.DatasetColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.New(fmt.Sprintf("load: missing column %q in CSV header", col))
		}
	}

	var rows [][]any
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "load: read record")
		}

		row := make([]any, len(db.DatasetColumns))
		for i, col := range db.DatasetColumns {
			cell := rec[colIdx[col]]
			if cell == "" {
				row[i] = nil
				continue
			}
			switch col {
			case "latitude", "longitude":
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, eris.Wrapf(err, "load: parse %s %q", col, cell)
				}
				row[i] = v
			default:
				row[i] = cell
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func init() {
	loadCmd.Flags().StringVar(&loadCSVPath, "csv", "", "path to the CSV file (required)")
	_ = loadCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(loadCmd)
}

// Package export writes the finished feature table to its output artifacts:
// a snappy-compressed parquet file plus a small yaml manifest describing it.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/writer"

	"api-volume-lab/internal/domain"
)

// FeatureFileName is the parquet file written into the output directory.
const FeatureFileName = "features.parquet"

// parquetSchema builds the CSV-writer metadata for the table's column order:
// a millisecond timestamp, two string identifiers, then one DOUBLE per
// feature column. The schema is derived from the table so it always matches
// whatever the configuration produced.
func parquetSchema(t *domain.FeatureTable) []string {
	md := make([]string, 0, 3+len(t.FeatureColumns))
	md = append(md,
		fmt.Sprintf("name=%s, type=INT64, convertedtype=TIMESTAMP_MILLIS", domain.ColTimestamp),
		fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", domain.ColAPIName),
		fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", domain.ColFamilia),
	)
	for _, name := range t.FeatureColumns {
		md = append(md, fmt.Sprintf("name=%s, type=DOUBLE", name))
	}
	return md
}

// WriteParquet writes the table to outDir/features.parquet and returns the
// written path. Rows keep the table's order, so identical tables produce
// identical files.
func WriteParquet(t *domain.FeatureTable, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(outDir, FeatureFileName)

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	pw, err := writer.NewCSVWriter(parquetSchema(t), writerfile.NewWriterFile(f), 1)
	if err != nil {
		return "", fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	row := make([]interface{}, 3+len(t.FeatureColumns))
	for i := 0; i < t.NumRows(); i++ {
		row[0] = t.Timestamps[i].UnixMilli()
		row[1] = t.APINames[i]
		row[2] = t.Familias[i]
		for j, name := range t.FeatureColumns {
			row[3+j] = t.Features[name][i]
		}
		if err := pw.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return "", fmt.Errorf("finalize parquet: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outPath, err)
	}
	return outPath, nil
}

package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

const parallelism = 4

func writeFile[R any](path string, rows []R) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	pw, err := writer.NewParquetWriter(fw, new(R), parallelism)
	if err != nil {
		_ = fw.Close()
		return errors.Wrapf(err, "create writer for %s", path)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return errors.Wrapf(err, "write %s", path)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return errors.Wrapf(err, "finish %s", path)
	}
	return errors.Wrapf(fw.Close(), "close %s", path)
}

func readFile[R any](path string) ([]R, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{What: path}
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(R), parallelism)
	if err != nil {
		return nil, errors.Wrapf(err, "create reader for %s", path)
	}
	defer pr.ReadStop()

	rows := make([]R, int(pr.GetNumRows()))
	if len(rows) == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rows, nil
}

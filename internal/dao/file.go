package dao

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/a1s/tgrid/internal/aws"
)

// SampleDataFile names the bundled sample record array.
const SampleDataFile = "sample_data.json"

//go:embed data/sample_data.json
var sampleData []byte

// SampleData returns the bundled sample record array.
func SampleData() []byte {
	return sampleData
}

// DecodeRecords parses a JSON array of records.
func DecodeRecords(raw []byte) ([]Record, error) {
	var rr []Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&rr); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if rr == nil {
		rr = []Record{}
	}
	return rr, nil
}

// ReadRecords loads a record array from loc: empty for the bundled sample,
// s3://bucket/key for an S3 object, or a local path.
func ReadRecords(ctx context.Context, loc string, s3 aws.ObjectReader) ([]byte, error) {
	switch {
	case loc == "":
		return sampleData, nil
	case aws.IsObjectURL(loc):
		if s3 == nil {
			return nil, fmt.Errorf("no S3 client configured for %s", loc)
		}
		bucket, key, err := aws.ParseObjectURL(loc)
		if err != nil {
			return nil, err
		}
		return s3.ReadObject(ctx, bucket, key)
	default:
		raw, err := os.ReadFile(loc)
		if err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
		return raw, nil
	}
}

// FileSource serves pages out of a static record array loaded once.
type FileSource struct {
	loc     string
	s3      aws.ObjectReader
	value   ValueFunc
	log     *slog.Logger
	records []Record
	loaded  bool
	mx      sync.Mutex
}

// NewFileSource returns a source reading loc on first use.
func NewFileSource(loc string, s3 aws.ObjectReader, value ValueFunc, log *slog.Logger) *FileSource {
	if value == nil {
		value = RawValue
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileSource{loc: loc, s3: s3, value: value, log: log}
}

// NewRecordSource returns a source over an in-memory record set.
func NewRecordSource(rr []Record, value ValueFunc) *FileSource {
	f := NewFileSource("", nil, value, nil)
	f.records, f.loaded = rr, true
	return f
}

// Location returns where records are read from.
func (f *FileSource) Location() string {
	if f.loc == "" {
		return SampleDataFile
	}
	return f.loc
}

// Records returns the loaded record set.
func (f *FileSource) Records(ctx context.Context) ([]Record, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	if f.loaded {
		return f.records, nil
	}
	raw, err := ReadRecords(ctx, f.loc, f.s3)
	if err != nil {
		return nil, &DataFetchError{Op: "load records", URL: f.Location(), Err: err}
	}
	rr, err := DecodeRecords(raw)
	if err != nil {
		return nil, &DataFetchError{Op: "load records", URL: f.Location(), Err: err}
	}
	f.records, f.loaded = rr, true
	f.log.Info("records loaded", "location", f.Location(), "count", len(rr))

	return f.records, nil
}

// FetchPage evaluates the snapshot against the loaded records.
func (f *FileSource) FetchPage(ctx context.Context, snap QuerySnapshot) (*ResultPage, error) {
	rr, err := f.Records(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Evaluate(rr, snap, f.value)
}

// Facets returns the distinct values of column.
func (f *FileSource) Facets(ctx context.Context, column string) ([]string, error) {
	rr, err := f.Records(ctx)
	if err != nil {
		return nil, err
	}

	return Facets(rr, column)
}

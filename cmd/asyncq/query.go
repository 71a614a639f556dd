package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kbukum/asyncq/asyncseq"
	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
	"github.com/kbukum/asyncq/logger"
)

// Row is one output line: a group key with its aggregated value.
type Row struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// BuildQuery composes the query described by cfg over src. Nothing is read
// until the returned sequence is enumerated.
func BuildQuery(cfg *QueryConfig, src asyncseq.Enumerable[Record], log *logger.Logger) asyncseq.Enumerable[Row] {
	records := src
	if cfg.Filter.Field != "" {
		filter := cfg.Filter
		records = asyncseq.Where(records, func(r Record) bool {
			v, ok := r[filter.Field]
			return ok && fmt.Sprint(v) == filter.Equals
		})
	}
	records = asyncseq.Log(records, log, "records")

	groupBy, valueField, aggregate := cfg.GroupBy, cfg.ValueField, cfg.Aggregate
	rows := asyncseq.GroupByResultAwaitWithCancellation(records,
		func(_ context.Context, r Record) *future.Future[string] {
			v, ok := r[groupBy]
			if !ok {
				return future.FromError[string](missingField(groupBy))
			}
			return future.FromValue(fmt.Sprint(v))
		},
		func(_ context.Context, r Record) *future.Future[float64] {
			v, err := numericField(r, valueField)
			return future.FromResult(v, err)
		},
		func(ctx context.Context, key string, values []float64) *future.Future[Row] {
			return future.Go(ctx, func(ctx context.Context) (Row, error) {
				v, err := aggregateValues(ctx, aggregate, values)
				return Row{Key: key, Value: v, Count: len(values)}, err
			})
		},
	)

	byValue := func(r Row) float64 { return r.Value }
	byKey := func(r Row) string { return r.Key }
	if cfg.Order == "desc" {
		return asyncseq.ThenBy(asyncseq.OrderByDescending(rows, byValue), byKey)
	}
	return asyncseq.ThenBy(asyncseq.OrderBy(rows, byValue), byKey)
}

func aggregateValues(ctx context.Context, aggregate string, values []float64) (float64, error) {
	src := asyncseq.FromSlice(values)
	switch aggregate {
	case AggregateSum:
		return asyncseq.Sum(ctx, src)
	case AggregateMin:
		return asyncseq.Min(ctx, src)
	case AggregateMax:
		return asyncseq.Max(ctx, src)
	case AggregateAverage:
		return asyncseq.Average(ctx, src)
	default:
		return 0, apperrors.InvalidConfig("unknown aggregate").WithDetail("aggregate", aggregate)
	}
}

func missingField(field string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "record has no field").WithDetail("field", field)
}

// numericField reads field from r as a float64. JSON numbers and numeric
// strings are accepted.
func numericField(r Record, field string) (float64, error) {
	v, ok := r[field]
	if !ok {
		return 0, missingField(field)
	}
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case string:
		f, err = strconv.ParseFloat(n, 64)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "field is not numeric").
			WithDetail("field", field).WithCause(err)
	}
	return f, nil
}

// WriteRows writes rows to w as JSON lines, flushing once per chunk of
// chunkSize rows. It returns the number of rows written.
func WriteRows(ctx context.Context, w io.Writer, rows asyncseq.Enumerable[Row], chunkSize int) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	written := 0
	err := asyncseq.ForEach(ctx, asyncseq.Chunk(rows, chunkSize), func(_ context.Context, chunk []Row) error {
		for _, row := range chunk {
			if err := enc.Encode(row); err != nil {
				return err
			}
			written++
		}
		return bw.Flush()
	})
	return written, err
}

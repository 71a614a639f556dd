package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/kbukum/asyncq/asyncseq"
	apperrors "github.com/kbukum/asyncq/errors"
)

// Record is one decoded JSON object from the input.
type Record map[string]any

// ReadRecords returns a sequence over the JSON objects in the file at path.
// The file is opened on the first MoveNext and closed on Dispose, so every
// enumeration reads the file afresh.
func ReadRecords(path string) *asyncseq.Sequence[Record] {
	return asyncseq.Create(func(ctx context.Context) asyncseq.Enumerator[Record] {
		return &recordReader{ctx: ctx, path: path}
	})
}

type recordReader struct {
	ctx  context.Context
	path string

	file    *os.File
	dec     *json.Decoder
	current Record
	line    int
	done    bool
}

func (r *recordReader) MoveNext() (bool, error) {
	if r.done {
		return false, nil
	}
	if err := r.ctx.Err(); err != nil {
		r.done = true
		return false, apperrors.Canceled(err)
	}
	if r.dec == nil {
		f, err := os.Open(r.path)
		if err != nil {
			r.done = true
			return false, apperrors.New(apperrors.ErrCodeInvalidInput, "cannot open input").
				WithDetail("path", r.path).WithCause(err)
		}
		r.file = f
		r.dec = json.NewDecoder(bufio.NewReader(f))
		r.dec.UseNumber()
	}

	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		r.done = true
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed record").
			WithDetail("path", r.path).WithDetail("record", r.line+1).WithCause(err)
	}
	r.line++
	r.current = rec
	return true, nil
}

func (r *recordReader) Current() Record { return r.current }

func (r *recordReader) Dispose() error {
	r.done = true
	r.current = nil
	if r.file == nil {
		return nil
	}
	f := r.file
	r.file = nil
	return f.Close()
}

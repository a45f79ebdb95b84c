// Package dataset parses the positional property CSV into validated records.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/arijit3111w/estateai/internal/domain/dedupe"
	"github.com/arijit3111w/estateai/internal/domain/model"
)

const ctxCheckEvery = 256

// Report counts what happened to each data line of one decode pass.
type Report struct {
	LinesRead        int  `json:"lines_read"`
	Accepted         int  `json:"accepted"`
	SkippedShort     int  `json:"skipped_short"`
	SkippedMalformed int  `json:"skipped_malformed"`
	DefaultedFields  int  `json:"defaulted_fields"`
	DefaultedRows    int  `json:"defaulted_rows"`
	RejectedPrice    int  `json:"rejected_price"`
	RejectedRegion   int  `json:"rejected_region"`
	RejectedStrict   int  `json:"rejected_strict"`
	Duplicates       int  `json:"duplicates"`
	Truncated        bool `json:"truncated"`
}

// Result is the outcome of Decode: accepted records in input order.
type Result struct {
	Records []model.PropertyRecord
	Report  Report
}

// Decode reads a header line followed by data lines. Short and malformed
// lines are skipped; unparseable numbers fall back to defaults; rows with a
// non-positive price or outside the region are dropped. Only a failing
// reader or a cancelled context produce an error, together with whatever
// was accepted so far.
func Decode(ctx context.Context, r io.Reader, opts ...Option) (Result, error) {
	o := decodeOptions{maxRows: DefaultMaxRows, region: DefaultRegion(), deduper: dedupe.NewInMemoryDeduper()}
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	res := Result{Records: []model.PropertyRecord{}}
	rep := &res.Report

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return res, fmt.Errorf("%w: header: %w", ErrRead, err)
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if err != nil && !errors.As(err, &pe) {
			return res, fmt.Errorf("%w: %w", ErrRead, err)
		}

		if o.maxRows > 0 && rep.LinesRead >= o.maxRows {
			rep.Truncated = true
			break
		}
		rep.LinesRead++
		if rep.LinesRead%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		if err != nil {
			rep.SkippedMalformed++
			continue
		}
		if len(fields) < RequiredColumns {
			rep.SkippedShort++
			continue
		}

		rec, defaulted := parseRow(fields)
		if rec.ID == "" {
			rec.ID = "row-" + strconv.Itoa(rep.LinesRead)
		}
		if defaulted > 0 {
			rep.DefaultedFields += defaulted
			rep.DefaultedRows++
		}

		switch {
		case !(rec.Price > 0) || math.IsInf(rec.Price, 0):
			rep.RejectedPrice++
			continue
		case !o.region.Contains(rec.Latitude, rec.Longitude):
			rep.RejectedRegion++
			continue
		case o.strict && defaulted > 0:
			rep.RejectedStrict++
			continue
		case o.deduper != nil && o.deduper.SeenAndRecord(ctx, rec.ID):
			rep.Duplicates++
			continue
		}

		res.Records = append(res.Records, rec)
		rep.Accepted++
	}
	return res, nil
}

package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// Fallbacks used when a numeric field does not parse.
const (
	DefaultBedrooms   = 2
	DefaultBathrooms  = 1.0
	DefaultLivingArea = 1000.0
	DefaultGrade      = 7
	DefaultCondition  = 3
)

// column maps one CSV position onto a record field. set reports false when
// the raw value did not parse and the fallback was used instead.
type column struct {
	name string
	set  func(r *model.PropertyRecord, raw string) bool
}

// schema is the positional layout of the dataset. It is the only place that
// knows column order.
var schema = []column{ //nolint:gochecknoglobals // fixed layout
	{"id", func(r *model.PropertyRecord, s string) bool { r.ID = s; return s != "" }},
	{"date", func(r *model.PropertyRecord, s string) bool { r.ListedDate = s; return true }},
	{"bedrooms", intField(func(r *model.PropertyRecord, v int) { r.Bedrooms = v }, DefaultBedrooms)},
	{"bathrooms", floatField(func(r *model.PropertyRecord, v float64) { r.Bathrooms = v }, DefaultBathrooms)},
	{"living_area", floatField(func(r *model.PropertyRecord, v float64) { r.LivingArea = v }, DefaultLivingArea)},
	{"lot_area", floatField(func(r *model.PropertyRecord, v float64) { r.LotArea = v }, 0)},
	{"floors", floatField(func(r *model.PropertyRecord, v float64) { r.Floors = v }, 0)},
	{"waterfront", func(r *model.PropertyRecord, s string) bool {
		v, ok := parseBool(s)
		r.Waterfront = v
		return ok
	}},
	{"views", intField(func(r *model.PropertyRecord, v int) { r.Views = v }, 0)},
	{"condition", intField(func(r *model.PropertyRecord, v int) { r.Condition = v }, DefaultCondition)},
	{"grade", intField(func(r *model.PropertyRecord, v int) { r.Grade = v }, DefaultGrade)},
	{"area_excl_basement", floatField(func(r *model.PropertyRecord, v float64) { r.AreaExclBasement = v }, 0)},
	{"basement_area", floatField(func(r *model.PropertyRecord, v float64) { r.BasementArea = v }, 0)},
	{"built_year", intField(func(r *model.PropertyRecord, v int) { r.BuiltYear = v }, 0)},
	{"renovation_year", intField(func(r *model.PropertyRecord, v int) { r.RenovationYear = v }, 0)},
	{"postal_code", func(r *model.PropertyRecord, s string) bool { r.PostalCode = s; return true }},
	{"latitude", floatField(func(r *model.PropertyRecord, v float64) { r.Latitude = v }, 0)},
	{"longitude", floatField(func(r *model.PropertyRecord, v float64) { r.Longitude = v }, 0)},
	{"living_area_renov", floatField(func(r *model.PropertyRecord, v float64) { r.LivingAreaRenov = v }, 0)},
	{"lot_area_renov", floatField(func(r *model.PropertyRecord, v float64) { r.LotAreaRenov = v }, 0)},
	{"schools_nearby", intField(func(r *model.PropertyRecord, v int) { r.SchoolsNearby = v }, 0)},
	{"distance_from_airport", floatField(func(r *model.PropertyRecord, v float64) { r.DistanceFromAirport = v }, 0)},
	{"price", floatField(func(r *model.PropertyRecord, v float64) { r.Price = v }, 0)},
}

// RequiredColumns is the minimum number of fields a row needs to be parsed.
var RequiredColumns = len(schema) //nolint:gochecknoglobals // derived from schema

// Columns returns the column names in file order, suitable as a header row.
func Columns() []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.name
	}
	return names
}

// Row renders a record back into positional fields, the inverse of parsing.
func Row(r model.PropertyRecord) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	i := strconv.Itoa
	waterfront := "0"
	if r.Waterfront {
		waterfront = "1"
	}
	return []string{
		r.ID, r.ListedDate, i(r.Bedrooms), f(r.Bathrooms), f(r.LivingArea), f(r.LotArea),
		f(r.Floors), waterfront, i(r.Views), i(r.Condition), i(r.Grade),
		f(r.AreaExclBasement), f(r.BasementArea), i(r.BuiltYear), i(r.RenovationYear),
		r.PostalCode, f(r.Latitude), f(r.Longitude), f(r.LivingAreaRenov), f(r.LotAreaRenov),
		i(r.SchoolsNearby), f(r.DistanceFromAirport), f(r.Price),
	}
}

// parseRow fills a record from fields and returns how many fields fell back
// to their default. fields must hold at least RequiredColumns values.
func parseRow(fields []string) (model.PropertyRecord, int) {
	var rec model.PropertyRecord
	defaulted := 0
	for i, c := range schema {
		if !c.set(&rec, strings.TrimSpace(fields[i])) {
			defaulted++
		}
	}
	return rec, defaulted
}

func floatField(set func(*model.PropertyRecord, float64), def float64) func(*model.PropertyRecord, string) bool {
	return func(r *model.PropertyRecord, s string) bool {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			set(r, def)
			return false
		}
		set(r, v)
		return true
	}
}

// intField accepts integral floats such as "3.0" the way the dataset writes them.
func intField(set func(*model.PropertyRecord, int), def int) func(*model.PropertyRecord, string) bool {
	return func(r *model.PropertyRecord, s string) bool {
		if v, err := strconv.Atoi(s); err == nil {
			set(r, v)
			return true
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			set(r, def)
			return false
		}
		set(r, int(v))
		return true
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

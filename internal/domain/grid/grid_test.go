package grid_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/arijit3111w/estateai/internal/domain/grid"
	"github.com/arijit3111w/estateai/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func at(id string, lat, lng, price float64) model.PropertyRecord {
	return model.PropertyRecord{ID: id, Latitude: lat, Longitude: lng, Price: price}
}

func TestAggregate(t *testing.T) {
	Convey("Given records spread over three cells", t, func() {
		records := []model.PropertyRecord{
			at("a", 52.501, -114.205, 500_000),
			at("b", 52.502, -114.201, 700_000),
			at("c", 52.509, -114.209, 900_000),
			at("d", 52.515, -114.205, 1_300_000),
			at("e", 53.001, -113.001, 400_000),
		}

		Convey("When aggregating with 0.01 degree cells", func() {
			cells, err := grid.Aggregate(records, 0.01)
			So(err, ShouldBeNil)

			Convey("Then every record lands in exactly one cell", func() {
				total := 0
				for _, c := range cells {
					total += c.PropertyCount
				}
				So(total, ShouldEqual, len(records))
				So(len(cells), ShouldEqual, 3)
			})

			Convey("And the densest cell comes first with correct stats", func() {
				first := cells[0]
				So(first.PropertyCount, ShouldEqual, 3)
				So(first.AveragePrice, ShouldAlmostEqual, 700_000.0, 1e-6)
				So(first.MinPrice, ShouldEqual, 500_000.0)
				So(first.MaxPrice, ShouldEqual, 900_000.0)
				So(first.ColorClass, ShouldEqual, model.ClassMidRange)
				So(first.Opacity, ShouldAlmostEqual, 0.45, 1e-9)
				So(first.CellID, ShouldEqual, "52.50:-114.21")
			})

			Convey("And min <= avg <= max in every cell", func() {
				for _, c := range cells {
					So(c.MinPrice, ShouldBeLessThanOrEqualTo, c.AveragePrice)
					So(c.AveragePrice, ShouldBeLessThanOrEqualTo, c.MaxPrice)
				}
			})

			Convey("And bounds span exactly one cell", func() {
				for _, c := range cells {
					So(c.Bounds.NorthEast.Lat-c.Bounds.SouthWest.Lat, ShouldAlmostEqual, 0.01, 1e-9)
					So(c.Bounds.NorthEast.Lng-c.Bounds.SouthWest.Lng, ShouldAlmostEqual, 0.01, 1e-9)
				}
			})

			Convey("And single-member cells are ordered by id", func() {
				So(cells[1].CellID < cells[2].CellID, ShouldBeTrue)
			})
		})

		Convey("When aggregating twice", func() {
			first, _ := grid.Aggregate(records, 0.01)
			first[0].PropertyCount = 99
			second, _ := grid.Aggregate(records, 0.01)

			Convey("Then the passes share nothing", func() {
				So(second[0].PropertyCount, ShouldEqual, 3)
			})
		})
	})

	Convey("Given an empty input", t, func() {
		cells, err := grid.Aggregate(nil, 0.01)
		So(err, ShouldBeNil)
		So(cells, ShouldBeEmpty)
	})

	Convey("Given records with non-finite coordinates", t, func() {
		records := []model.PropertyRecord{
			at("ok", 52.5, -114.2, 500_000),
			at("nan", math.NaN(), -114.2, 500_000),
		}
		cells, err := grid.Aggregate(records, 0.01)
		So(err, ShouldBeNil)
		So(len(cells), ShouldEqual, 1)
		So(cells[0].PropertyCount, ShouldEqual, 1)
	})

	Convey("Given an invalid cell size", t, func() {
		for _, size := range []float64{0, -0.5, math.NaN(), math.Inf(1), 1e-12, 1e-20, 5e-7} {
			_, err := grid.Aggregate([]model.PropertyRecord{at("a", 52.5, -114.2, 1)}, size)
			So(errors.Is(err, grid.ErrInvalidCellSize), ShouldBeTrue)
		}
	})

	Convey("Given two distant points and the smallest cell size", t, func() {
		records := []model.PropertyRecord{
			at("a", 52.5, -114.2, 600_000),
			at("b", 53.5, -113.2, 800_000),
		}
		cells, err := grid.Aggregate(records, grid.MinCellSize)

		Convey("Then each point keeps its own cell named by its corner", func() {
			So(err, ShouldBeNil)
			So(len(cells), ShouldEqual, 2)
			So(cells[0].CellID, ShouldNotEqual, cells[1].CellID)
			for _, c := range cells {
				So(c.PropertyCount, ShouldEqual, 1)
				So(c.Bounds.NorthEast.Lat-c.Bounds.SouthWest.Lat, ShouldAlmostEqual, grid.MinCellSize, 1e-9)
				lat, lng, _ := strings.Cut(c.CellID, ":")
				So(len(lat)-strings.Index(lat, ".")-1, ShouldEqual, 6)
				So(len(lng)-strings.Index(lng, ".")-1, ShouldEqual, 6)
			}
			ids := []string{cells[0].CellID, cells[1].CellID}
			for _, r := range records {
				So(ids, ShouldContain, grid.CellID(r.Latitude, r.Longitude, grid.MinCellSize))
			}
		})
	})

	Convey("Given a coordinate too large to index", t, func() {
		records := []model.PropertyRecord{
			at("a", 52.5, -114.2, 600_000),
			at("far", 1e300, -114.2, 800_000),
		}
		cells, err := grid.Aggregate(records, 0.01)

		Convey("Then it is left out instead of merging into another cell", func() {
			So(err, ShouldBeNil)
			So(len(cells), ShouldEqual, 1)
			So(cells[0].PropertyCount, ShouldEqual, 1)
			So(cells[0].AveragePrice, ShouldEqual, 600_000.0)
		})
	})
}

func TestValidateCellSize(t *testing.T) {
	Convey("Given the cell size bounds", t, func() {
		So(grid.ValidateCellSize(grid.MinCellSize), ShouldBeNil)
		So(grid.ValidateCellSize(grid.DefaultCellSize), ShouldBeNil)
		So(grid.ValidateCellSize(1), ShouldBeNil)
		So(errors.Is(grid.ValidateCellSize(1e-9), grid.ErrInvalidCellSize), ShouldBeTrue)
	})
}

func TestClassify(t *testing.T) {
	Convey("Given averages around each threshold", t, func() {
		So(grid.Classify(599_999), ShouldEqual, model.ClassAffordable)
		So(grid.Classify(600_000), ShouldEqual, model.ClassMidRange)
		So(grid.Classify(800_000), ShouldEqual, model.ClassExpensive)
		So(grid.Classify(1_199_999), ShouldEqual, model.ClassExpensive)
		So(grid.Classify(1_200_000), ShouldEqual, model.ClassLuxury)
	})
}

func TestOpacity(t *testing.T) {
	Convey("Given tier opacities", t, func() {
		Convey("They grow with count", func() {
			So(grid.Opacity(model.ClassAffordable, 1), ShouldAlmostEqual, 0.35, 1e-9)
			So(grid.Opacity(model.ClassExpensive, 2), ShouldAlmostEqual, 0.45, 1e-9)
			So(grid.Opacity(model.ClassLuxury, 1), ShouldAlmostEqual, 0.45, 1e-9)
		})

		Convey("They stop at the tier cap", func() {
			So(grid.Opacity(model.ClassAffordable, 100), ShouldAlmostEqual, 0.7, 1e-9)
			So(grid.Opacity(model.ClassMidRange, 100), ShouldAlmostEqual, 0.7, 1e-9)
			So(grid.Opacity(model.ClassExpensive, 100), ShouldAlmostEqual, 0.75, 1e-9)
			So(grid.Opacity(model.ClassLuxury, 100), ShouldAlmostEqual, 0.8, 1e-9)
		})
	})
}

func TestCellID(t *testing.T) {
	Convey("Given points in the same cell", t, func() {
		So(grid.CellID(52.501, -114.201, 0.01), ShouldEqual, grid.CellID(52.509, -114.209, 0.01))
	})

	Convey("Given a negative longitude", t, func() {
		So(grid.CellID(52.5, -114.201, 0.1), ShouldEqual, "52.5:-114.3")
	})
}

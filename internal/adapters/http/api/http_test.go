package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arijit3111w/estateai/internal/adapters/http/api"
	"github.com/arijit3111w/estateai/internal/adapters/repository"
	"github.com/arijit3111w/estateai/internal/adapters/source"
	service "github.com/arijit3111w/estateai/internal/app"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/grid"
	"github.com/arijit3111w/estateai/internal/domain/investment"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
	"github.com/arijit3111w/estateai/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	records []model.PropertyRecord
	entries []types.Entry
	cells   []model.GridCell
	err     error

	lastK        int
	lastLimit    int
	lastOffset   int
	lastFilter   ranking.Filter
	lastCellSize float64
	lastParams   model.FinancingParams
	lastTarget   model.TargetFeatureVector
	refreshed    int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		records: []model.PropertyRecord{{ID: "P1", Price: 500000}, {ID: "P2", Price: 900000}},
		entries: types.Entries([]model.ScoredCandidate{
			{PropertyRecord: model.PropertyRecord{ID: "P1"}, Similarity: 0.9},
			{PropertyRecord: model.PropertyRecord{ID: "P2"}, Similarity: 0.6},
		}),
		cells: []model.GridCell{{CellID: "52.50:-114.21", PropertyCount: 2, ColorClass: model.ClassMidRange}},
	}
}

func (m *mockDependencies) Properties(_ context.Context, limit, offset int) (types.Page, error) {
	m.lastLimit, m.lastOffset = limit, offset
	if m.err != nil {
		return types.Page{}, m.err
	}
	return types.Page{Total: len(m.records), Limit: limit, Offset: offset, Records: m.records}, nil
}

func (m *mockDependencies) Property(_ context.Context, id string) (model.PropertyRecord, error) {
	if m.err != nil {
		return model.PropertyRecord{}, m.err
	}
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.PropertyRecord{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
}

func (m *mockDependencies) SimilarTo(_ context.Context, id string, k int) ([]types.Entry, error) {
	m.lastK = k
	if _, err := m.Property(context.Background(), id); err != nil {
		return nil, err
	}
	return m.entries, nil
}

func (m *mockDependencies) Breakdown(_ context.Context, id string, target model.TargetFeatureVector) (scoring.Components, error) {
	m.lastTarget = target
	if _, err := m.Property(context.Background(), id); err != nil {
		return scoring.Components{}, err
	}
	return scoring.Components{Price: 1, Total: 0.5}, nil
}

func (m *mockDependencies) Similar(_ context.Context, target model.TargetFeatureVector, k int) ([]types.Entry, error) {
	m.lastTarget, m.lastK = target, k
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockDependencies) Heatmap(_ context.Context, filter ranking.Filter, cellSize float64) ([]model.GridCell, error) {
	m.lastFilter, m.lastCellSize = filter, cellSize
	if m.err != nil {
		return nil, m.err
	}
	if cellSize != 0 {
		if err := grid.ValidateCellSize(cellSize); err != nil {
			return nil, err
		}
	}
	return m.cells, nil
}

func (m *mockDependencies) CellSize() float64 { return 0.01 }

func (m *mockDependencies) Investment(
	_ context.Context, target model.TargetFeatureVector, k int, params model.FinancingParams,
) ([]types.Entry, error) {
	m.lastTarget, m.lastK, m.lastParams = target, k, params
	if err := investment.Validate(params); err != nil {
		return nil, err
	}
	return m.entries, nil
}

func (m *mockDependencies) Schedule(_ context.Context, price float64, params model.FinancingParams) ([]investment.YearRow, error) {
	m.lastParams = params
	return investment.Schedule(price, params)
}

func (m *mockDependencies) Financing() model.FinancingParams { return investment.DefaultParams() }

func (m *mockDependencies) Explore(
	_ context.Context,
	target model.TargetFeatureVector,
	k int,
	filter ranking.Filter,
	cellSize float64,
	params model.FinancingParams,
) (service.ExploreResult, error) {
	m.lastTarget, m.lastK, m.lastFilter, m.lastCellSize, m.lastParams = target, k, filter, cellSize, params
	if m.err != nil {
		return service.ExploreResult{}, m.err
	}
	return service.ExploreResult{Similar: m.entries, Cells: m.cells, InvestmentError: "invalid input: rent"}, nil
}

func (m *mockDependencies) Summary(context.Context) (dataset.Summary, error) {
	if m.err != nil {
		return dataset.Summary{}, m.err
	}
	return dataset.Summarize(m.records), nil
}

func (m *mockDependencies) Refresh(context.Context) (dataset.Report, error) {
	m.refreshed++
	if m.err != nil {
		return dataset.Report{}, m.err
	}
	return dataset.Report{LinesRead: 2, Accepted: 2}, nil
}

func (m *mockDependencies) DatasetInfo() repository.Info {
	return repository.Info{Source: "embedded", Loaded: true, Records: len(m.records)}
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"records": 2}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint returns the provider's map", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"records":2`)
		})

		Convey("And dashboard is served as HTML", func() {
			w := do(mux, http.MethodGet, "/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "/heatmap")
		})

		Convey("And wrong methods are not found", func() {
			So(do(mux, http.MethodGet, "/similar", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/heatmap", "{}").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/dataset/refresh", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPropertiesHandler(t *testing.T) {
	Convey("Given the properties routes", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When listing with paging", func() {
			w := do(mux, http.MethodGet, "/properties?limit=5&offset=1", "")

			Convey("Then the page is returned with the parsed window", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var page types.Page
				So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
				So(page.Total, ShouldEqual, 2)
				So(deps.lastLimit, ShouldEqual, 5)
				So(deps.lastOffset, ShouldEqual, 1)
			})
		})

		Convey("When paging values are malformed", func() {
			So(do(mux, http.MethodGet, "/properties?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/properties?offset=-1", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching a known property", func() {
			w := do(mux, http.MethodGet, "/properties/P2", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"id":"P2"`)
		})

		Convey("When fetching an unknown property", func() {
			w := do(mux, http.MethodGet, "/properties/NOPE", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeErrorCode(w), ShouldEqual, "not_found")
		})

		Convey("When the id is missing", func() {
			So(do(mux, http.MethodGet, "/properties/", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When asking for neighbours of a property", func() {
			w := do(mux, http.MethodGet, "/properties/P1/similar?k=3", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastK, ShouldEqual, 3)
			var entries []types.Entry
			So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Rank, ShouldEqual, 1)
		})

		Convey("When asking for a score breakdown", func() {
			w := do(mux, http.MethodPost, "/properties/P1/breakdown", `{"price":500000,"bedrooms":3}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastTarget.Bedrooms, ShouldEqual, 3)
			So(w.Body.String(), ShouldContainSubstring, `"total":0.5`)
		})

		Convey("When a breakdown is requested with GET", func() {
			So(do(mux, http.MethodGet, "/properties/P1/breakdown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the sub-path is unknown", func() {
			So(do(mux, http.MethodGet, "/properties/P1/photos", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSimilarHandler(t *testing.T) {
	Convey("Given the similar route", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When posting a target", func() {
			w := do(mux, http.MethodPost, "/similar", `{"target":{"price":600000,"bedrooms":3,"latitude":52.5,"longitude":-114.2},"k":2}`)

			Convey("Then the ranked entries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastK, ShouldEqual, 2)
				So(deps.lastTarget.Price, ShouldEqual, 600000.0)
				So(w.Body.String(), ShouldContainSubstring, `"similarity":0.9`)
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/similar", `{"target":{},"limit":2}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeErrorCode(w), ShouldEqual, "bad_request")
		})

		Convey("When the body is not JSON", func() {
			So(do(mux, http.MethodPost, "/similar", `nope`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service rejects the target", func() {
			deps.err = service.ErrInvalidTarget
			So(do(mux, http.MethodPost, "/similar", `{"target":{}}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the dataset is unavailable", func() {
			deps.err = fmt.Errorf("%w: connection refused", source.ErrSourceUnavailable)
			w := do(mux, http.MethodPost, "/similar", `{"target":{}}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeErrorCode(w), ShouldEqual, "unavailable")
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = fmt.Errorf("boom")
			So(do(mux, http.MethodPost, "/similar", `{"target":{}}`).Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestHeatmapHandler(t *testing.T) {
	Convey("Given the heatmap route", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When no query is given", func() {
			w := do(mux, http.MethodGet, "/heatmap", "")

			Convey("Then the default cell size is reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCellSize, ShouldEqual, 0.0)
				So(w.Body.String(), ShouldContainSubstring, `"cell_size":0.01`)
				So(w.Body.String(), ShouldContainSubstring, `"cell_id":"52.50:-114.21"`)
			})
		})

		Convey("When filters are given", func() {
			w := do(mux, http.MethodGet, "/heatmap?cell_size=0.05&min_price=100000&max_price=900000&min_bedrooms=3", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastCellSize, ShouldEqual, 0.05)
			So(deps.lastFilter, ShouldResemble, ranking.Filter{MinPrice: 100000, MaxPrice: 900000, MinBedrooms: 3})
		})

		Convey("When the cell size is zero or malformed", func() {
			So(do(mux, http.MethodGet, "/heatmap?cell_size=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/heatmap?cell_size=x", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/heatmap?min_bedrooms=-2", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the cell size is below the grid minimum", func() {
			for _, size := range []string{"1e-12", "1e-20", "0.0000005"} {
				w := do(mux, http.MethodGet, "/heatmap?cell_size="+size, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeErrorCode(w), ShouldEqual, "bad_request")
			}
		})
	})
}

func TestInvestmentHandler(t *testing.T) {
	Convey("Given the investment routes", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When only rent is supplied", func() {
			w := do(mux, http.MethodPost, "/investment", `{"target":{"price":500000},"k":5,"financing":{"expected_monthly_rent":2500}}`)

			Convey("Then the defaults fill the rest of the financing", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastK, ShouldEqual, 5)
				So(deps.lastParams.AnnualRatePercent, ShouldEqual, 7.5)
				So(deps.lastParams.TenureYears, ShouldEqual, 20)
				So(deps.lastParams.DownPaymentPercent, ShouldEqual, 20.0)
				So(deps.lastParams.ExpectedMonthlyRent, ShouldEqual, 2500.0)
			})
		})

		Convey("When overrides are supplied", func() {
			w := do(mux, http.MethodPost, "/investment",
				`{"target":{},"financing":{"annual_rate_percent":0,"tenure_years":30,"expected_monthly_rent":2000}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastParams.AnnualRatePercent, ShouldEqual, 0.0)
			So(deps.lastParams.TenureYears, ShouldEqual, 30)
		})

		Convey("When rent is missing", func() {
			w := do(mux, http.MethodPost, "/investment", `{"target":{}}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeErrorCode(w), ShouldEqual, "invalid_input")
		})

		Convey("When requesting an amortization schedule", func() {
			w := do(mux, http.MethodPost, "/investment/schedule", `{"price":500000,"financing":{"tenure_years":2}}`)

			Convey("Then one row per year is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Years []investment.YearRow `json:"years"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Years), ShouldEqual, 2)
				So(body.Years[1].ClosingBalance, ShouldAlmostEqual, 0.0, 1e-6)
			})
		})

		Convey("When the schedule price is invalid", func() {
			So(do(mux, http.MethodPost, "/investment/schedule", `{"price":0}`).Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestExploreHandler(t *testing.T) {
	Convey("Given the explore route", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When posting a combined request", func() {
			w := do(mux, http.MethodPost, "/explore",
				`{"target":{"price":500000},"k":4,"filter":{"min_bedrooms":2},"cell_size":0.02}`)

			Convey("Then every part is forwarded and the result is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastK, ShouldEqual, 4)
				So(deps.lastFilter.MinBedrooms, ShouldEqual, 2)
				So(deps.lastCellSize, ShouldEqual, 0.02)
				So(deps.lastParams.TenureYears, ShouldEqual, 20)

				var res service.ExploreResult
				So(json.Unmarshal(w.Body.Bytes(), &res), ShouldBeNil)
				So(len(res.Similar), ShouldEqual, 2)
				So(len(res.Cells), ShouldEqual, 1)
				So(res.InvestmentError, ShouldNotBeEmpty)
			})
		})

		Convey("When the dataset is unavailable", func() {
			deps.err = source.ErrSourceUnavailable
			So(do(mux, http.MethodPost, "/explore", `{}`).Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestDatasetHandler(t *testing.T) {
	Convey("Given the dataset routes", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When reading info", func() {
			w := do(mux, http.MethodGet, "/dataset", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"source":"embedded"`)
		})

		Convey("When reading the summary", func() {
			w := do(mux, http.MethodGet, "/dataset/summary", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var sum dataset.Summary
			So(json.Unmarshal(w.Body.Bytes(), &sum), ShouldBeNil)
			So(sum.Count, ShouldEqual, 2)
			So(sum.AveragePrice, ShouldEqual, 700000.0)
		})

		Convey("When refreshing", func() {
			w := do(mux, http.MethodPost, "/dataset/refresh", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.refreshed, ShouldEqual, 1)
		})

		Convey("When refreshing fails", func() {
			deps.err = source.ErrSourceUnavailable
			So(do(mux, http.MethodPost, "/dataset/refresh", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the remote body breaks off during the refresh", func() {
			deps.err = fmt.Errorf("%w: %w", dataset.ErrRead,
				fmt.Errorf("%w: http://data/homes.csv: read: unexpected EOF", source.ErrSourceUnavailable))
			w := do(mux, http.MethodPost, "/dataset/refresh", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeErrorCode(w), ShouldEqual, "unavailable")
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with request ids", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get(api.RequestIDHeader)
		}))

		Convey("When the caller sends no id", func() {
			w := do(h, http.MethodGet, "/", "")

			Convey("Then one is generated and echoed", func() {
				So(seen, ShouldNotBeEmpty)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
				So(len(seen), ShouldEqual, 36)
			})
		})

		Convey("When the caller sends an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is kept", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "test")

		Convey("Then the status passes through", func() {
			w := do(h, http.MethodGet, "/", "")
			So(w.Code, ShouldEqual, http.StatusTeapot)
		})
	})
}

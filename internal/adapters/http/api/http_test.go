package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/ozdeals/dealboard/internal/adapters/http/api"
	"github.com/ozdeals/dealboard/internal/domain/model"
	"github.com/ozdeals/dealboard/internal/domain/scoring"
	"github.com/ozdeals/dealboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// stubDeps is a canned implementation of the handler dependencies.
type stubDeps struct {
	ranked     []api.ScoredDeal
	lastSeason scoring.Season
	urls       map[string]string
	redirected map[string]string
	image      string
	imageErr   error
}

func (s *stubDeps) Ranked(_ context.Context, season scoring.Season) []api.ScoredDeal {
	s.lastSeason = season
	return append([]api.ScoredDeal(nil), s.ranked...)
}

func (s *stubDeps) ResolveURL(_ context.Context, id string) (string, bool) {
	u, ok := s.urls[id]
	return u, ok
}

func (s *stubDeps) Redirect(_ context.Context, rawURL string) string {
	if final, ok := s.redirected[rawURL]; ok {
		return final
	}
	return rawURL
}

func (s *stubDeps) ResolveImage(_ context.Context, _ string) (string, error) {
	return s.image, s.imageErr
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func scored(id, category string, score float64, price, discount float64, regions ...string) api.ScoredDeal {
	return api.ScoredDeal{
		Deal: model.Deal{
			ID: id, Title: id, Retailer: "Acme", Category: category,
			URL: "https://a.com/" + id, Price: price, Currency: "AUD",
			Regions: regions,
		},
		Score:  score,
		Facets: scoring.Facets{Discount: discount},
	}
}

func newMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}, 3).Register(context.Background(), mux)
	return mux
}

func TestDealsEndpoint(t *testing.T) {
	deps := &stubDeps{
		ranked: []api.ScoredDeal{
			scored("d1", "Tech", 0.9, 100, 0.5, "AU"),
			scored("d2", "Home", 0.8, 50, 0.3, "AU", "NZ"),
			scored("d3", "Tech", 0.7, 20, 0.1, "NZ"),
		},
	}

	Convey("Given the API routes", t, func() {
		mux := newMux(deps)

		get := func(target string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			return rec
		}

		Convey("When fetching the listing", func() {
			rec := get("/api/deals")

			Convey("Then the body should be a bare JSON array in rank order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []api.ScoredDeal
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 3)
				So(got[0].ID, ShouldEqual, "d1")
				So(got[0].Score, ShouldAlmostEqual, 0.9, 1e-9)
			})

			Convey("And the response should be uncacheable", func() {
				So(rec.Header().Get("Cache-Control"), ShouldContainSubstring, "no-store")
			})

			Convey("And a request id should be stamped", func() {
				So(rec.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})

		Convey("When limiting the listing", func() {
			rec := get("/api/deals?limit=2")
			var got []api.ScoredDeal
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("When the limit exceeds the cap", func() {
			rec := get("/api/deals?limit=50")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is not a number", func() {
			rec := get("/api/deals?limit=lots")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When filtering by category", func() {
			rec := get("/api/deals?category=tech")
			var got []api.ScoredDeal
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Category, ShouldEqual, "Tech")
		})

		Convey("When filtering by region", func() {
			rec := get("/api/deals?region=nz")
			var got []api.ScoredDeal
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("When sorting by price", func() {
			rec := get("/api/deals?sort=price")
			var got []api.ScoredDeal
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got[0].ID, ShouldEqual, "d3")
			So(got[2].ID, ShouldEqual, "d1")
		})

		Convey("When sorting by discount", func() {
			rec := get("/api/deals?sort=discount")
			var got []api.ScoredDeal
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got[0].ID, ShouldEqual, "d1")
		})

		Convey("When overriding the season", func() {
			rec := get("/api/deals?season=winter")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSeason, ShouldEqual, scoring.Winter)
		})

		Convey("When the season override is unknown", func() {
			rec := get("/api/deals?season=monsoon")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			var body map[string]string
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/deals", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestClickEndpoint(t *testing.T) {
	deps := &stubDeps{
		urls: map[string]string{"d1": "https://a.com/d1"},
		redirected: map[string]string{
			"https://a.com/d1":   "https://a.com/d1-final",
			"https://short.ly/x": "https://shop.com/product",
		},
	}

	Convey("Given the click route", t, func() {
		mux := newMux(deps)

		get := func(target string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			return rec
		}

		Convey("When clicking through a raw URL", func() {
			rec := get("/api/click?url=https%3A%2F%2Fshort.ly%2Fx")

			Convey("Then it should 302 to the resolved destination", func() {
				So(rec.Code, ShouldEqual, http.StatusFound)
				So(rec.Header().Get("Location"), ShouldEqual, "https://shop.com/product")
			})
		})

		Convey("When clicking through a deal id", func() {
			rec := get("/api/click?id=d1")
			So(rec.Code, ShouldEqual, http.StatusFound)
			So(rec.Header().Get("Location"), ShouldEqual, "https://a.com/d1-final")
		})

		Convey("When the URL carries encoded ampersands", func() {
			rec := get("/api/click?url=" + "https%3A%2F%2Fa.com%2Fd1%3Fx%3D1%26amp%3By%3D2")

			Convey("Then sanitation should run before resolution", func() {
				So(rec.Code, ShouldEqual, http.StatusFound)
				So(rec.Header().Get("Location"), ShouldEqual, "https://a.com/d1?x=1&y=2")
			})
		})

		Convey("When neither parameter resolves", func() {
			rec := get("/api/click?id=unknown")

			Convey("Then the click should land on the site root", func() {
				So(rec.Code, ShouldEqual, http.StatusFound)
				So(rec.Header().Get("Location"), ShouldEqual, "/")
			})
		})

		Convey("When no parameters are given", func() {
			rec := get("/api/click")
			So(rec.Code, ShouldEqual, http.StatusFound)
			So(rec.Header().Get("Location"), ShouldEqual, "/")
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats route", t, func() {
		mux := newMux(&stubDeps{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		So(rec.Code, ShouldEqual, http.StatusOK)
		var body map[string]interface{}
		So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
		So(body["started"], ShouldEqual, true)
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health route", t, func() {
		mux := newMux(&stubDeps{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		Convey("Then a scrape should succeed", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestImageEndpoint(t *testing.T) {
	Convey("Given an upstream image host", t, func() {
		img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer img.Close()

		Convey("When proxying a direct image URL", func() {
			mux := newMux(&stubDeps{})
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/og-image?image="+img.URL+"/p.png", nil))

			Convey("Then the bytes should stream through with the content type", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "image/png")
				So(rec.Body.String(), ShouldEqual, "png-bytes")
			})
		})

		Convey("When discovering the image from a page URL", func() {
			deps := &stubDeps{image: img.URL + "/discovered.png"}
			mux := newMux(deps)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/og-image?url=https%3A%2F%2Fshop.com%2Fp", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "png-bytes")
		})

		Convey("When discovery fails", func() {
			deps := &stubDeps{imageErr: api.ErrNoImage}
			mux := newMux(deps)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/og-image?url=https%3A%2F%2Fshop.com%2Fp", nil))

			Convey("Then the placeholder contract should answer 404 no-image", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(rec.Body.String(), ShouldEqual, "no-image")
			})
		})

		Convey("When no usable parameter is given", func() {
			mux := newMux(&stubDeps{})
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/og-image", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(rec.Body.String(), ShouldEqual, "no-image")
		})
	})
}

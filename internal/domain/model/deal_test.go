package model_test

import (
	"strings"
	"testing"

	"github.com/ozdeals/dealboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validDeal() model.Deal {
	return model.Deal{
		ID: "d1", Title: "Widget", Retailer: "Acme",
		URL: "https://a.com/p", Price: 9.99,
	}
}

func TestDeal_Valid(t *testing.T) {
	Convey("Given a deal satisfying all construction invariants", t, func() {
		So(validDeal().Valid(), ShouldBeTrue)
	})

	Convey("Given deals violating an invariant", t, func() {
		Convey("Then an empty id should fail", func() {
			d := validDeal()
			d.ID = ""
			So(d.Valid(), ShouldBeFalse)
		})

		Convey("Then an empty title should fail", func() {
			d := validDeal()
			d.Title = ""
			So(d.Valid(), ShouldBeFalse)
		})

		Convey("Then an empty retailer should fail", func() {
			d := validDeal()
			d.Retailer = ""
			So(d.Valid(), ShouldBeFalse)
		})

		Convey("Then a relative URL should fail", func() {
			d := validDeal()
			d.URL = "/p"
			So(d.Valid(), ShouldBeFalse)
		})

		Convey("Then a non-http scheme should fail", func() {
			d := validDeal()
			d.URL = "ftp://a.com/p"
			So(d.Valid(), ShouldBeFalse)
		})

		Convey("Then a non-positive price should fail", func() {
			d := validDeal()
			d.Price = 0
			So(d.Valid(), ShouldBeFalse)
			d.Price = -1
			So(d.Valid(), ShouldBeFalse)
		})
	})
}

func TestIsAbsoluteHTTP(t *testing.T) {
	Convey("Given candidate URLs", t, func() {
		So(model.IsAbsoluteHTTP("https://a.com/p"), ShouldBeTrue)
		So(model.IsAbsoluteHTTP("http://a.com"), ShouldBeTrue)
		So(model.IsAbsoluteHTTP("ftp://a.com"), ShouldBeFalse)
		So(model.IsAbsoluteHTTP("a.com/p"), ShouldBeFalse)
		So(model.IsAbsoluteHTTP("https://"), ShouldBeFalse)
		So(model.IsAbsoluteHTTP(""), ShouldBeFalse)
	})
}

func TestSynthesizeID(t *testing.T) {
	Convey("Given rows without an explicit id", t, func() {
		Convey("Then synthesis should be deterministic", func() {
			a := model.SynthesizeID("Acme", "My Widget", "https://a.com/p")
			b := model.SynthesizeID("Acme", "My Widget", "https://a.com/p")
			So(a, ShouldEqual, b)
			So(a, ShouldEqual, "Acme-My-Widget-https://a.com/p")
		})

		Convey("Then whitespace should collapse to single hyphens", func() {
			id := model.SynthesizeID("Acme", "My   Spaced\tWidget", "https://a.com/p")
			So(strings.Contains(id, " "), ShouldBeFalse)
			So(id, ShouldEqual, "Acme-My-Spaced-Widget-https://a.com/p")
		})

		Convey("Then overlong ids should be capped", func() {
			id := model.SynthesizeID("Acme", strings.Repeat("x", 500), "https://a.com/p")
			So(len(id), ShouldEqual, 200)
		})
	})
}

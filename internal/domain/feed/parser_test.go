package feed_test

import (
	"testing"

	feed "github.com/ozdeals/dealboard/internal/domain/feed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a TSV feed with a recognizable header", t, func() {
		text := "id\ttitle\tretailer\tprice\n" +
			"d1\tWidget\tAcme\t9.99\n" +
			"d2\tGadget\tGlobex\t19.99\n"

		Convey("When parsing", func() {
			rows := feed.Parse(text)

			Convey("Then it should yield one row per data line", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Get(feed.FieldID), ShouldEqual, "d1")
				So(rows[0].Get(feed.FieldTitle), ShouldEqual, "Widget")
				So(rows[1].Get(feed.FieldRetailer), ShouldEqual, "Globex")
			})
		})
	})

	Convey("Given header spellings with varied case and separators", t, func() {
		text := "Deal ID\tProduct Name\tStore\tSale Price\n" +
			"d1\tWidget\tAcme\t9.99\n"

		Convey("When parsing", func() {
			rows := feed.Parse(text)

			Convey("Then aliases should resolve to canonical fields", func() {
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Get(feed.FieldID), ShouldEqual, "d1")
				So(rows[0].Get(feed.FieldTitle), ShouldEqual, "Widget")
				So(rows[0].Get(feed.FieldRetailer), ShouldEqual, "Acme")
				So(rows[0].Get(feed.FieldPrice), ShouldEqual, "9.99")
			})
		})
	})

	Convey("Given a feed without a header row", t, func() {
		text := "d1\tWidget\tAcme\tTech\thttps://a.com/p\t\t9.99\n"

		Convey("When parsing", func() {
			rows := feed.Parse(text)

			Convey("Then the assumed column order should apply and the first line is data", func() {
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Get(feed.FieldID), ShouldEqual, "d1")
				So(rows[0].Get(feed.FieldCategory), ShouldEqual, "Tech")
				So(rows[0].Get(feed.FieldURL), ShouldEqual, "https://a.com/p")
				So(rows[0].Get(feed.FieldPrice), ShouldEqual, "9.99")
			})
		})
	})

	Convey("Given messy input", t, func() {
		Convey("When the feed starts with a BOM and uses CRLF line endings", func() {
			text := "\ufeffid\ttitle\tretailer\r\nd1\tWidget\tAcme\r\n"
			rows := feed.Parse(text)

			So(rows, ShouldHaveLength, 1)
			So(rows[0].Get(feed.FieldID), ShouldEqual, "d1")
		})

		Convey("When rows come up short", func() {
			text := "id\ttitle\tretailer\tprice\nd1\tWidget\n"
			rows := feed.Parse(text)

			So(rows, ShouldHaveLength, 1)
			So(rows[0].Get(feed.FieldRetailer), ShouldEqual, "")
			So(rows[0].Get(feed.FieldPrice), ShouldEqual, "")
		})

		Convey("When blank lines are interleaved", func() {
			text := "id\ttitle\n\nd1\tWidget\n   \nd2\tGadget\n"
			rows := feed.Parse(text)

			So(rows, ShouldHaveLength, 2)
		})

		Convey("When cells carry stray whitespace", func() {
			text := "id\ttitle\n  d1  \t  Widget \n"
			rows := feed.Parse(text)

			So(rows[0].Get(feed.FieldID), ShouldEqual, "d1")
			So(rows[0].Get(feed.FieldTitle), ShouldEqual, "Widget")
		})
	})

	Convey("Given degenerate input", t, func() {
		Convey("Then parsing should yield no rows and no error", func() {
			So(feed.Parse(""), ShouldBeEmpty)
			So(feed.Parse("\n\n  \n"), ShouldBeEmpty)
		})

		Convey("Then a header-only feed should yield no rows", func() {
			So(feed.Parse("id\ttitle\tretailer\tprice\n"), ShouldBeEmpty)
		})
	})
}

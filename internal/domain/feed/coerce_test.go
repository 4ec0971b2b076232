package feed_test

import (
	"testing"

	feed "github.com/ozdeals/dealboard/internal/domain/feed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNumber(t *testing.T) {
	Convey("Given raw price cells", t, func() {
		Convey("Then plain numbers should parse", func() {
			So(feed.Number("9.99"), ShouldEqual, 9.99)
			So(feed.Number("120"), ShouldEqual, 120)
		})

		Convey("Then currency symbols and units should be stripped", func() {
			So(feed.Number("$9.99"), ShouldEqual, 9.99)
			So(feed.Number("AUD 1,299.00"), ShouldEqual, 1299)
			So(feed.Number("  49.95 ea"), ShouldEqual, 49.95)
		})

		Convey("Then unparseable input should yield zero", func() {
			So(feed.Number(""), ShouldEqual, 0)
			So(feed.Number("free"), ShouldEqual, 0)
			So(feed.Number("..."), ShouldEqual, 0)
		})
	})
}

func TestList(t *testing.T) {
	Convey("Given delimiter-separated cells", t, func() {
		Convey("Then commas and semicolons should both split", func() {
			So(feed.List("a,b;c"), ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("Then pieces should be trimmed and empties dropped", func() {
			So(feed.List(" a ; ; b ,"), ShouldResemble, []string{"a", "b"})
		})

		Convey("Then empty input should yield an empty slice", func() {
			So(feed.List(""), ShouldBeEmpty)
			So(feed.List("   "), ShouldBeEmpty)
		})
	})
}

func TestSanitizeURL(t *testing.T) {
	Convey("Given URL cells pasted from a spreadsheet", t, func() {
		Convey("Then a missing scheme should default to https", func() {
			So(feed.SanitizeURL("example.com/deal"), ShouldEqual, "https://example.com/deal")
		})

		Convey("Then an existing scheme should be preserved", func() {
			So(feed.SanitizeURL("http://example.com"), ShouldEqual, "http://example.com")
			So(feed.SanitizeURL("HTTPS://example.com"), ShouldEqual, "HTTPS://example.com")
		})

		Convey("Then HTML-encoded ampersands should decode, even nested", func() {
			So(feed.SanitizeURL("https://a.com/?x=1&amp;y=2"), ShouldEqual, "https://a.com/?x=1&y=2")
			So(feed.SanitizeURL("https://a.com/?x=1&amp;amp;y=2"), ShouldEqual, "https://a.com/?x=1&y=2")
		})

		Convey("Then zero-width characters should be removed", func() {
			So(feed.SanitizeURL("https://a.com/\u200bdeal"), ShouldEqual, "https://a.com/deal")
		})

		Convey("Then literal spaces should be percent-encoded", func() {
			So(feed.SanitizeURL("https://a.com/my deal"), ShouldEqual, "https://a.com/my%20deal")
		})

		Convey("Then sanitizing should be idempotent", func() {
			inputs := []string{
				"https://a.com/?x=1&amp;y=2",
				"example.com/deal",
				"https://a.com/my deal",
				"https://a.com/\u200bdeal",
			}
			for _, in := range inputs {
				once := feed.SanitizeURL(in)
				So(feed.SanitizeURL(once), ShouldEqual, once)
			}
		})

		Convey("Then empty input should stay empty", func() {
			So(feed.SanitizeURL(""), ShouldEqual, "")
			So(feed.SanitizeURL("\u200b"), ShouldEqual, "")
		})
	})
}

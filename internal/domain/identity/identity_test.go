package identity_test

import (
	"testing"

	"github.com/devpulse/engage/internal/domain/identity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw display names", t, func() {
		Convey("When normalizing simple names", func() {
			So(identity.Normalize("Ana"), ShouldEqual, "ana")
			So(identity.Normalize("  Ana  "), ShouldEqual, "ana")
			So(identity.Normalize("ANA"), ShouldEqual, "ana")
		})

		Convey("When normalizing handles with an @ prefix", func() {
			So(identity.Normalize("@Ana"), ShouldEqual, "ana")
		})

		Convey("When normalizing multi-word names", func() {
			So(identity.Normalize("Ana Maria Silva"), ShouldEqual, "ana-maria-silva")
			So(identity.Normalize("Ana   Maria"), ShouldEqual, "ana-maria")
		})

		Convey("When normalizing empty input", func() {
			So(identity.Normalize(""), ShouldEqual, "")
			So(identity.Normalize("   "), ShouldEqual, "")
			So(identity.Normalize("@"), ShouldEqual, "")
		})

		Convey("Then two casings of the same name should collapse to one key", func() {
			So(identity.Normalize("Bob"), ShouldEqual, identity.Normalize("bob"))
		})
	})
}

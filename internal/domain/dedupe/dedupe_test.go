package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/arijit3111w/estateai/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an id is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "7129300520")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a second record reports it as seen", func() {
				So(d.SeenAndRecord(ctx, "7129300520"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "a")
			d.Unrecord(ctx, "a")

			Convey("Then it can be accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When the set is reset", func() {
			for i := 0; i < 10; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
			}
			d.Reset(ctx)

			Convey("Then every id is forgotten", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "id-3"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a deduper bounded to three ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"a", "b", "c", "d"} {
			d.SeenAndRecord(ctx, id)
		}

		Convey("Then the oldest id is evicted first", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
		})

		Convey("When an id is unrecorded before eviction reaches it", func() {
			d.Unrecord(ctx, "b")
			d.SeenAndRecord(ctx, "e")

			Convey("Then the stale queue entry is skipped", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "e"), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent writers on the same ids", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0

		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is accepted exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}

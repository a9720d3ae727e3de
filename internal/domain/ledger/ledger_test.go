package ledger_test

import (
	"testing"

	"github.com/BS-European-Championship/ta-relay/internal/domain/ledger"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(guid, name, teamID, teamName string, score int) model.ScoreEntry {
	return model.ScoreEntry{
		User: model.User{
			GUID: guid,
			Name: name,
			Team: model.Team{ID: teamID, Name: teamName},
		},
		Score: score,
	}
}

func TestLedger_Append(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		led := ledger.New()

		Convey("Then it reports empty", func() {
			So(led.Empty(), ShouldBeTrue)
			So(led.FinishedCount("level-1"), ShouldEqual, 0)
		})

		Convey("When appending a result", func() {
			added := led.Append("level-1", entry("u1", "Alice", "t1", "Red", 500))

			Convey("Then the result is recorded", func() {
				So(added, ShouldBeTrue)
				So(led.Empty(), ShouldBeFalse)
				So(led.FinishedCount("level-1"), ShouldEqual, 1)
			})

			Convey("And appending the same player again is rejected", func() {
				again := led.Append("level-1", entry("u1", "Alice", "t1", "Red", 700))
				So(again, ShouldBeFalse)
				So(led.FinishedCount("level-1"), ShouldEqual, 1)

				Convey("And the original score is kept", func() {
					levels := led.Snapshot()
					So(levels, ShouldHaveLength, 1)
					So(levels[0].Entries[0].Score, ShouldEqual, 500)
				})
			})

			Convey("And the same player can finish a different level", func() {
				So(led.Append("level-2", entry("u1", "Alice", "t1", "Red", 600)), ShouldBeTrue)
				So(led.FinishedCount("level-2"), ShouldEqual, 1)
			})
		})
	})
}

func TestLedger_Snapshot(t *testing.T) {
	Convey("Given a ledger with results across levels", t, func() {
		led := ledger.New()
		led.Append("level-b", entry("u1", "Alice", "t1", "Red", 100))
		led.Append("level-a", entry("u2", "Bob", "t2", "Blue", 200))
		led.Append("level-b", entry("u3", "Cara", "t2", "Blue", 300))

		Convey("When taking a snapshot", func() {
			levels := led.Snapshot()

			Convey("Then levels appear in first-seen order", func() {
				So(levels, ShouldHaveLength, 2)
				So(levels[0].LevelID, ShouldEqual, "level-b")
				So(levels[1].LevelID, ShouldEqual, "level-a")
				So(levels[0].Entries, ShouldHaveLength, 2)
				So(levels[1].Entries, ShouldHaveLength, 1)
			})

			Convey("And mutating the snapshot does not affect the ledger", func() {
				levels[0].Entries[0].Score = 9999
				fresh := led.Snapshot()
				So(fresh[0].Entries[0].Score, ShouldEqual, 100)
			})
		})

		Convey("When resetting the ledger", func() {
			led.Reset()

			Convey("Then all state is gone", func() {
				So(led.Empty(), ShouldBeTrue)
				So(led.Snapshot(), ShouldHaveLength, 0)
				So(led.FinishedCount("level-b"), ShouldEqual, 0)
			})

			Convey("And previously finished players may finish again", func() {
				So(led.Append("level-b", entry("u1", "Alice", "t1", "Red", 150)), ShouldBeTrue)
			})
		})
	})
}

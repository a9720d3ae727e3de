package transform_test

import (
	"testing"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/internal/domain/transform"
	"github.com/BS-European-Championship/ta-relay/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func player(guid, name string) model.User {
	return model.User{
		GUID:          guid,
		Name:          name,
		Team:          model.Team{ID: "t1", Name: "Red"},
		PlatformID:    "7656" + guid,
		ClientType:    model.ClientTypePlayer,
		DownloadState: model.Downloaded,
		PlayState:     model.InGame,
	}
}

func TestUser(t *testing.T) {
	Convey("Given a coordinator user", t, func() {
		u := player("u1", "Alice")

		Convey("When flattening for display", func() {
			display := transform.User(u)

			Convey("Then enum states become labels", func() {
				So(display.GUID, ShouldEqual, "u1")
				So(display.Name, ShouldEqual, "Alice")
				So(display.Team.Name, ShouldEqual, "Red")
				So(display.Downloaded, ShouldEqual, "Downloaded")
				So(display.PlayState, ShouldEqual, "InGame")
			})
		})

		Convey("When shaping user lifecycle broadcasts", func() {
			So(transform.UserUpdate(u).Type, ShouldEqual, types.TypeUser)
			So(transform.UserLeft(u).Type, ShouldEqual, types.TypeUserLeft)
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a match with players and a coordinator in the roster", t, func() {
		coord := model.User{GUID: "c1", Name: "Desk", ClientType: model.ClientTypeCoordinator}
		outsider := player("u9", "NotInMatch")
		m := model.Match{
			ID:                     "m1",
			AssociatedUsers:        []string{"u1", "u2", "c1"},
			SelectedLevel:          &model.Level{ID: "custom_level_abc", Name: "Overkill"},
			SelectedCharacteristic: "Standard",
			SelectedDifficulty:     4,
		}
		roster := []model.User{player("u1", "Alice"), player("u2", "Bob"), coord, outsider}

		Convey("When shaping the match broadcast", func() {
			msg := transform.Match(m, roster)

			Convey("Then only associated players are included", func() {
				So(msg.Type, ShouldEqual, types.TypeMatch)
				So(msg.Players, ShouldHaveLength, 2)
				So(msg.Players[0].Name, ShouldEqual, "Alice")
				So(msg.Players[1].Name, ShouldEqual, "Bob")
			})

			Convey("And the coordinator and song are carried", func() {
				So(msg.Coordinator, ShouldEqual, "Desk")
				So(msg.Song.ID, ShouldEqual, "custom_level_abc")
				So(msg.Song.Name, ShouldEqual, "Overkill")
				So(msg.Song.Characteristic, ShouldEqual, "Standard")
				So(msg.Song.Difficulty, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a match without a selected level or coordinator", t, func() {
		m := model.Match{ID: "m2", AssociatedUsers: []string{"u1"}}

		Convey("When shaping the match broadcast", func() {
			msg := transform.Match(m, []model.User{player("u1", "Alice")})

			Convey("Then the missing fields degrade gracefully", func() {
				So(msg.Coordinator, ShouldEqual, "")
				So(msg.Song.ID, ShouldEqual, "")
				So(msg.Players, ShouldHaveLength, 1)
			})
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given a realtime score", t, func() {
		score := model.RealtimeScore{UserGUID: "u1", Score: 12345, Accuracy: 0.97, Combo: 50, Misses: 1}

		Convey("When the sender is known", func() {
			u := player("u1", "Alice")
			msg := transform.Score(score, &u)

			Convey("Then the user rides along", func() {
				So(msg.Type, ShouldEqual, types.TypeScore)
				So(msg.Score.Score, ShouldEqual, 12345)
				So(msg.User, ShouldNotBeNil)
				So(msg.User.Name, ShouldEqual, "Alice")
			})
		})

		Convey("When the sender is unknown", func() {
			msg := transform.Score(score, nil)

			Convey("Then the message omits the user", func() {
				So(msg.User, ShouldBeNil)
				So(msg.Score.UserGUID, ShouldEqual, "u1")
			})
		})
	})
}

func TestFinalScoreAndPoints(t *testing.T) {
	Convey("Given a song finish", t, func() {
		finished := model.SongFinished{
			Player:  player("u1", "Alice"),
			Beatmap: model.Level{ID: "custom_level_abc", Name: "Overkill"},
			Score:   654321,
		}

		Convey("When shaping the final score broadcast", func() {
			msg := transform.FinalScore(finished)
			So(msg.Type, ShouldEqual, types.TypeFinalScore)
			So(msg.User.GUID, ShouldEqual, "u1")
			So(msg.Score, ShouldEqual, 654321)
		})
	})

	Convey("Given standings rows", t, func() {
		Convey("When shaping the points broadcast", func() {
			rows := []model.TeamPoints{{Team: model.Team{ID: "t1", Name: "Red"}, Points: 3}}
			msg := transform.Points(rows)
			So(msg.Type, ShouldEqual, types.TypePoints)
			So(msg.Teams, ShouldHaveLength, 1)
		})

		Convey("When shaping nil standings", func() {
			msg := transform.Points(nil)
			So(msg.Teams, ShouldNotBeNil)
			So(msg.Teams, ShouldHaveLength, 0)
		})
	})
}

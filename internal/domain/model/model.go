// Package model contains the tournament domain objects passed between layers.
// Field names and JSON tags mirror the coordination protocol's wire shapes.
package model

// Team groups players; point totals are derived from the ledger, never
// stored on the team itself.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClientType distinguishes the kinds of clients known to the coordinator.
type ClientType int

const (
	ClientTypePlayer ClientType = iota
	ClientTypeCoordinator
	ClientTypeWebsocketConnection
)

// DownloadState tracks a player's level download progress.
type DownloadState int

const (
	DownloadNone DownloadState = iota
	Downloading
	Downloaded
	DownloadError
)

var downloadStateLabels = map[DownloadState]string{
	DownloadNone:  "None",
	Downloading:   "Downloading",
	Downloaded:    "Downloaded",
	DownloadError: "DownloadError",
}

// Label returns the display label for the state, or "Unknown".
func (s DownloadState) Label() string {
	if l, ok := downloadStateLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// PlayState tracks whether a player is currently in a level.
type PlayState int

const (
	Waiting PlayState = iota
	InGame
)

var playStateLabels = map[PlayState]string{
	Waiting: "Waiting",
	InGame:  "InGame",
}

// Label returns the display label for the state, or "Unknown".
func (s PlayState) Label() string {
	if l, ok := playStateLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// User is a participant known to the coordinator. The Team field is a weak
// reference: ownership stays with the coordinator's roster.
type User struct {
	GUID          string        `json:"guid"`
	Name          string        `json:"name"`
	Team          Team          `json:"team"`
	PlatformID    string        `json:"user_id"`
	ClientType    ClientType    `json:"client_type"`
	DownloadState DownloadState `json:"download_state"`
	PlayState     PlayState     `json:"play_state"`
}

// Level identifies a playable level.
type Level struct {
	ID   string `json:"level_id"`
	Name string `json:"name"`
}

// Match is the coordinator's unit of play. AssociatedUsers holds user guids.
type Match struct {
	ID                     string   `json:"guid"`
	AssociatedUsers        []string `json:"associated_users"`
	SelectedLevel          *Level   `json:"selected_level,omitempty"`
	SelectedCharacteristic string   `json:"selected_characteristic,omitempty"`
	SelectedDifficulty     int      `json:"selected_difficulty"`
}

// HasUser reports whether guid is in the match's associated-user set.
func (m *Match) HasUser(guid string) bool {
	for _, u := range m.AssociatedUsers {
		if u == guid {
			return true
		}
	}
	return false
}

// RealtimeScore is a live score push for a user mid-level.
type RealtimeScore struct {
	UserGUID string  `json:"user_guid"`
	Score    int     `json:"score"`
	Accuracy float64 `json:"accuracy"`
	Combo    int     `json:"combo"`
	Misses   int     `json:"misses"`
}

// SongFinished reports a player's final score for a level.
type SongFinished struct {
	Player  User  `json:"player"`
	Beatmap Level `json:"beatmap"`
	Score   int   `json:"score"`
}

// ScoreEntry is one recorded (user, score) pair in the ledger.
type ScoreEntry struct {
	User  User
	Score int
}

// TeamPoints is a computed standings row: a team plus its accumulated
// rank-derived points. Derived fresh from the ledger on every query.
type TeamPoints struct {
	Team   Team `json:"team"`
	Points int  `json:"points"`
}

// EventType names the coordinator events the relay subscribes to.
type EventType string

const (
	EventRealtimeScore EventType = "realtimeScore"
	EventSongFinished  EventType = "songFinished"
	EventMatchCreated  EventType = "matchCreated"
	EventMatchUpdated  EventType = "matchUpdated"
	EventPlaySong      EventType = "playSong"
	EventUserUpdated   EventType = "userUpdated"
	EventUserLeft      EventType = "userLeft"
)

// Event is a tagged coordinator event. Exactly one payload pointer is set,
// matching Type; EventPlaySong carries none.
type Event struct {
	Type     EventType      `json:"type"`
	Score    *RealtimeScore `json:"score,omitempty"`
	Finished *SongFinished  `json:"finished,omitempty"`
	Match    *Match         `json:"match,omitempty"`
	User     *User          `json:"user,omitempty"`
}

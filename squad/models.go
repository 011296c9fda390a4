package squad

// Player is one entry of the ListPlayers response.
type Player struct {
	ID      int    `json:"id"`
	SteamID string `json:"steam_id"`
	Name    string `json:"name"`
	TeamID  int    `json:"team_id"`

	// SquadID is nil if the player is not in a squad.
	SquadID *int `json:"squad_id"`
}

// Squad is one entry of the ListSquads response. TeamID is taken from the team header preceding it.
type Squad struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Size   int    `json:"size"`
	TeamID int    `json:"team_id"`
	Locked bool   `json:"locked"`
}

type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Chat is a chat message pushed by the server outside of any command response.
type Chat struct {
	Channel string `json:"channel"`
	SteamID string `json:"steam_id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

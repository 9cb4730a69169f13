package http

type ErrorResponse struct {
	Message string `json:"message"`
}

type CharacterResponse struct {
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	Race        string `json:"race"`
	Bloodline   string `json:"bloodline"`
	Gender      string `json:"gender"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Voted       bool   `json:"voted"`
}

type CastVoteRequest struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

type EnlistCharacterRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

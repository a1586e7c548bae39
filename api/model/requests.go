package model

type SetHealthParams struct {
	Fid    string `json:"fid"`
	Status string `json:"status"`
}

type SetHealthResponse struct {
	States []State `json:"states"`
}

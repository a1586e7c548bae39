package model

type State struct {
	Fid       string `json:"fid"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status"`
	NoteState string `json:"note_state"`
}

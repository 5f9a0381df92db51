package request

import "github.com/mveld/empadmin/internal/model"

// Login is the body of POST /login
type Login struct {
	Password string `json:"password"`
}

// Say is the body of POST /actions/say
type Say struct {
	Message string `json:"message"`
}

// PM is the body of POST /actions/pm
type PM struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Kick is the body of POST /actions/kick
type Kick struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// Ban is the body of POST /actions/ban
type Ban struct {
	ID       model.PlayerID `json:"id"`
	Duration string         `json:"duration,omitempty"`
}

// Unban is the body of POST /actions/unban
type Unban struct {
	ID model.PlayerID `json:"id"`
}

// UpdateSlot is the body of PUT /schedule/{index}
type UpdateSlot struct {
	Slot model.ScheduleSlot `json:"slot"`
}

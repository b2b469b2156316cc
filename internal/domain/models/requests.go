package models

// Requests for the rates HTTP endpoints.

type PeersRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=200"`
	// History defaults to true when the query parameter is absent.
	History *bool `query:"history" json:"history"`
	Refresh bool  `query:"refresh" json:"refresh"`
}

// WantHistory reports whether the response should carry the history block.
func (r *PeersRequest) WantHistory() bool {
	return r.History == nil || *r.History
}

type ForecastRequest struct {
	Refresh bool `query:"refresh" json:"refresh"`
}

type ScenariosRequest struct {
	Refresh bool `query:"refresh" json:"refresh"`
}

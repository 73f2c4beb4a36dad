package dto

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/session"
)

// PointRequest carries one map click or marker drag. Both fields are
// required; pointers tell a missing field apart from zero.
type PointRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p PointRequest) LatLng() (domain.LatLng, bool) {
	if p.Lat == nil || p.Lng == nil {
		return domain.LatLng{}, false
	}
	return domain.LatLng{Lat: *p.Lat, Lng: *p.Lng}, true
}

type EditingRequest struct {
	Editing *bool `json:"editing"`
}

type SubmitRequest = session.LineMetadata

type SubmitResponse struct {
	Status  string           `json:"status"`
	Payload *session.Payload `json:"payload"`
}

type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

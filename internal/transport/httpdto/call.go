package httpdto

import "call-directory/internal/domain/call"

// CreateCallRequest is used for POST /v1/calls. The call id is minted
// server-side and the creator comes from the authenticated context.
type CreateCallRequest struct {
	GroupID       string `json:"group_id" binding:"required"`
	BackendHost   string `json:"backend_host" binding:"required"`
	BackendRegion string `json:"backend_region" binding:"required"`
}

// CallDTO represents a call record in API responses
type CallDTO struct {
	GroupID       string `json:"group_id"`
	CallID        string `json:"call_id"`
	BackendHost   string `json:"backend_host"`
	BackendRegion string `json:"backend_region"`
	Creator       string `json:"creator"`
}

// CreateCallResponse is returned from POST /v1/calls
type CreateCallResponse struct {
	Call CallDTO `json:"call"`
	// Created reports whether this request created the instance or an
	// existing instance won.
	Created bool `json:"created"`
}

// CallListResponse is returned when listing calls by region
type CallListResponse struct {
	Calls []CallDTO `json:"calls"`
}

func NewCallDTO(rec call.Record) CallDTO {
	return CallDTO{
		GroupID:       rec.GroupID,
		CallID:        rec.CallID,
		BackendHost:   rec.BackendHost,
		BackendRegion: rec.BackendRegion,
		Creator:       rec.Creator,
	}
}

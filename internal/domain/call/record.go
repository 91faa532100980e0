package call

// Record maps a group to the call instance currently running for it.
// At most one record exists per group; a record is replaced, never
// updated in place, so a change of hosting backend shows up as a new
// record with a fresh call id.
type Record struct {
	// GroupID is the stable, externally assigned group identifier.
	GroupID string `dynamodbav:"groupConferenceId" json:"group_id"`
	// CallID identifies one specific instance (era) of a call for the
	// group. It is regenerated every time a new call starts.
	CallID string `dynamodbav:"jvbConferenceId" json:"call_id"`
	// BackendHost is the address of the media server hosting the call.
	BackendHost string `dynamodbav:"jvbHost" json:"backend_host"`
	// BackendRegion is the region of that media server, queryable via
	// the region secondary index.
	BackendRegion string `dynamodbav:"region" json:"backend_region"`
	// Creator is the user that created the call instance.
	Creator string `dynamodbav:"creator" json:"creator"`
}

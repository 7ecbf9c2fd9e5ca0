package hotspots

// SubmittedTopicName carries one event per accepted submission whose
// location still lacks coordinates.
const SubmittedTopicName = "topic.hotspots.submitted"

// LocationSubmittedEvent asks the consumer to geocode a stored location.
type LocationSubmittedEvent struct {
	LocationID int64  `json:"location_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}

package worker

import "fmt"

// ApplicationNotifyMessage is the realtime event forwarded to the employer's
// WebSocket through Redis Pub/Sub. Field names match the frontend parser.
type ApplicationNotifyMessage struct {
	Type          string `json:"type"` // application_status | application_received
	ApplicationID uint   `json:"application_id"`
	JobListingID  uint   `json:"job_listing_id"`
	Status        string `json:"status,omitempty"`
	Code          int    `json:"code"`
}

// NotifyChannel is the per-user Pub/Sub channel name.
func NotifyChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

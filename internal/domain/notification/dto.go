// internal/domain/notification/dto.go
package notification

type Summary struct {
	Unread int `json:"unread"`
	Total  int `json:"total"`
}

// ListResponse is a page of the session's queue, newest first. Summary
// always describes the whole queue.
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Summary       Summary        `json:"summary"`
}

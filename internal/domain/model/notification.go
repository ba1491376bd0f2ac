package model

// NotificationField is a titled section of a notification.
type NotificationField struct {
	Name   string
	Value  string
	Inline bool
}

// Notification is a transport-agnostic run summary for downstream notifiers.
type Notification struct {
	Title       string
	Description string
	Fields      []NotificationField
	Failed      bool
}

package models

// JSON is a free-form payload map. Notification events carry their bodies
// in one; it marshals like any map.
type JSON map[string]interface{}

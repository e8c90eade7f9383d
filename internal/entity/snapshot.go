package entity

import "time"

// ContextMenuSnapshot describes the element under the most recent right-click.
// Each right-click overwrites the previous snapshot.
type ContextMenuSnapshot struct {
	ElementTag string    `json:"elementTag"`
	Src        string    `json:"src,omitempty"`
	Href       string    `json:"href,omitempty"`
	Alt        string    `json:"alt,omitempty"`
	PageURL    string    `json:"pageUrl"`
	Timestamp  time.Time `json:"timestamp"`
}

package entity

// HostRequest is an outbound request sent to the host process.
type HostRequest struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

// HostResponse mirrors the {success, ...} shape every host action answers with.
type HostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RawPage is the serialized DOM handed over by a page loader.
type RawPage struct {
	URL  string
	HTML string
}

// PagePayload is the data of quick-scan and report-page requests.
type PagePayload struct {
	URL      string    `json:"url"`
	PageInfo *PageInfo `json:"pageInfo"`
}

// CollectImagesPayload is the data of a collect-images request.
type CollectImagesPayload struct {
	Images   []ImageRecord `json:"images"`
	PageInfo *PageInfo     `json:"pageInfo"`
}

// ReportImagePayload is the data of a report-image request.
type ReportImagePayload struct {
	URL      string        `json:"url"`
	PageURL  string        `json:"pageUrl"`
	Context  *ImageContext `json:"context"`
	Selector string        `json:"selector"`
}

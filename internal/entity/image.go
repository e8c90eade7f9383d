package entity

// Link is an anchor found next to an image.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"` // at most 50 UTF-16 code units
}

// ImageContext holds the local textual context around an image.
type ImageContext struct {
	AltText          string `json:"altText"`
	TitleText        string `json:"titleText"`
	ParentText       string `json:"parentText"` // at most 200 UTF-16 code units
	SurroundingLinks []Link `json:"surroundingLinks"`
}

// ImageRecord represents one qualifying image found during a collection pass.
// It lives only as long as the response payload that carries it.
type ImageRecord struct {
	URL       string        `json:"url"`
	AltText   string        `json:"altText"`
	TitleText string        `json:"titleText"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	DOMIndex  int           `json:"domIndex"`
	Selector  string        `json:"selector"`
	Context   *ImageContext `json:"context"`
}

package wizard

// Field update requests share one shape: which field, what value.
type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type skillRequest struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

type titleRequest struct {
	Title string `json:"title"`
}

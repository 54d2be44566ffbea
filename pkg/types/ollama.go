package types

// GenerateRequest is the payload for the Ollama /api/generate endpoint.
type GenerateRequest struct {
	// Model name, e.g. "llama3.1". If empty the server default applies.
	Model string `json:"model"`
	// Prompt text to complete.
	Prompt string `json:"prompt"`
	// Stream must be false: callers of this repo expect a single buffered reply.
	Stream bool `json:"stream"`
}

// GenerateResponse is the (non-streaming) reply from /api/generate.
type GenerateResponse struct {
	Model    string `json:"model,omitempty"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaModel describes one entry of the /api/tags listing.
type OllamaModel struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	Digest     string `json:"digest,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// TagsResponse wraps the model listing returned by GET /api/tags.
type TagsResponse struct {
	Models []OllamaModel `json:"models"`
}

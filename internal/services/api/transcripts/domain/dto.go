// Package domain holds DTOs for the transcript http surface
package domain

// FetchInput asks for one video's transcript
type FetchInput struct {
	VideoURL string `json:"video_url" validate:"required,min=1,max=2048" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Lang     string `json:"lang,omitempty" validate:"omitempty,min=2,max=35" example:"en"`
}

// BulkInput asks for many transcripts in one call
// pacing between sub-requests is server policy, not caller input
type BulkInput struct {
	VideoURLs []string `json:"video_urls" validate:"required,min=1,max=100,dive,min=1,max=2048"`
	Lang      string   `json:"lang,omitempty" validate:"omitempty,min=2,max=35" example:"en"`
}

// Transcript is the keyed API success payload
type Transcript struct {
	VideoID  string `json:"video_id" example:"dQw4w9WgXcQ"`
	Language string `json:"language" example:"en"`
	FullText string `json:"full_text"`
	Method   string `json:"method" example:"timedtext"`
}

// ConsoleTranscript is the UI payload, which never exposes the method
type ConsoleTranscript struct {
	Transcript string `json:"transcript"`
	VideoID    string `json:"video_id" example:"dQw4w9WgXcQ"`
	Language   string `json:"language" example:"en"`
}

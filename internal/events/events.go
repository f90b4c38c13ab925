package events

import "time"

type DatasetUploadedEvent struct {
	Token           string    `json:"token"`
	Filename        string    `json:"filename"`
	NumAlternatives int       `json:"num_alternatives"`
	NumCriteria     int       `json:"num_criteria"`
	Timestamp       time.Time `json:"timestamp"`
}

type RunCompletedEvent struct {
	Token           string    `json:"token"`
	NumAlternatives int       `json:"num_alternatives"`
	BestID          string    `json:"best_id"`
	BestScore       float64   `json:"best_score"`
	DurationMs      float64   `json:"duration_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

type RunFailedEvent struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

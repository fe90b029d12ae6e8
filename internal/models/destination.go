package models

import "time"

// Destination is a catalog entry shown to travellers.
type Destination struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Country            string    `json:"country"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url"`
	BestTimeToVisit    string    `json:"best_time_to_visit"`
	PopularAttractions string    `json:"popular_attractions"`
	CreatedAt          time.Time `json:"created_at"`
}

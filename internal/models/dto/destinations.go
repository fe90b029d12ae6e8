package dto

import "github.com/travelms/travel-be/internal/models"

type DestinationListResponse struct {
	Count        int                  `json:"count"`
	Destinations []models.Destination `json:"destinations"`
}

type DestinationResponse struct {
	Destination models.Destination `json:"destination"`
}

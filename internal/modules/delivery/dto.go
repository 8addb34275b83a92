package delivery

// AcceptMatchRequest is sent by the announcement's author to turn a
// scored match into an actual delivery.
type AcceptMatchRequest struct {
	RouteID        int64 `json:"route_id" binding:"required"`
	AnnouncementID int64 `json:"announcement_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ValidateRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// AcceptMatchResponse carries the plain validation code exactly once.
// Only the sha256 of the code is stored, so it cannot be recovered later.
type AcceptMatchResponse struct {
	DeliveryID     int64  `json:"delivery_id"`
	TrackingNumber string `json:"tracking_number"`
	ValidationCode string `json:"validation_code"`
}

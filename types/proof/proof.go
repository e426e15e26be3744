package proof

import (
	"fmt"
)

// SubmitProofForm carries the multipart form fields accompanying the media
// file on proof submission. Coordinates arrive as strings and may be absent.
type SubmitProofForm struct {
	PhotoType   string `form:"photo_type"`
	Caption     string `form:"caption"`
	LocationLat string `form:"location_lat"`
	LocationLng string `form:"location_lng"`
}

type DecideProofRequest struct {
	Approved *bool `json:"approved"`
}

func (r DecideProofRequest) Validate() error {
	if r.Approved == nil {
		return fmt.Errorf("approved is required")
	}
	return nil
}

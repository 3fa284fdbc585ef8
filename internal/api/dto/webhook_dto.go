package dto

// MemberChangedRequest is the membership-platform webhook body. Only the
// member id is trusted; current state is always re-read from the Admin API.
type MemberChangedRequest struct {
	Member struct {
		Current struct {
			ID string `json:"id"`
		} `json:"current"`
	} `json:"member"`
}

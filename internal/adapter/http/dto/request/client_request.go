package request

import "billingapp/internal/usecase"

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r ClientRequest) ToNewClient(userID string) usecase.NewClient {
	return usecase.NewClient{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Notes:   r.Notes,
		UserID:  userID,
	}
}

// ClientUpdateRequest is a partial update payload; absent fields are left
// untouched.
type ClientUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (r ClientUpdateRequest) ToClientUpdate() usecase.ClientUpdate {
	return usecase.ClientUpdate{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Notes:   r.Notes,
	}
}

package assist

type CreateSessionRequest struct {
	Locale string `json:"locale" binding:"omitempty,oneof=ja en"`
}

type LoadHistoryRequest struct {
	Email           string `json:"email" binding:"required,email"`
	CurrentTicketID string `json:"current_ticket_id" binding:"omitempty,max=64"`
}

type SelectTicketRequest struct {
	TicketID string `json:"ticket_id" binding:"omitempty,max=64"`
}

type SummarizeCurrentRequest struct {
	TicketID string `json:"ticket_id" binding:"required,max=64"`
}

type SummarizeSelectedRequest struct {
	TicketID string `json:"ticket_id" binding:"omitempty,max=64"`
}

type AddNoteRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

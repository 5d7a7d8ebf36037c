package chat

type CreateConversationDTO struct {
	Title          string   `json:"title" validate:"max=200"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,uuid"`
}

type SendMessageDTO struct {
	Content string `json:"content" validate:"required,max=4000"`
}

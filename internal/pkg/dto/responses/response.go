package responses

type ResponseDTO struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	DevMessage string      `json:"dev_message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

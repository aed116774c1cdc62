package models

type GateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Active   *bool  `json:"active"`
}

type AnswerPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GenerateRequest struct {
	BusinessName string       `json:"businessName" binding:"required"`
	BusinessType string       `json:"businessType"`
	Answers      []AnswerPair `json:"answers"`
}

// AnswerRequest records one answer on the rating page. Custom is only
// meaningful when Value is "Other".
type AnswerRequest struct {
	Index  int     `json:"index"`
	Value  string  `json:"value"`
	Custom *string `json:"custom"`
}

// RatingGenerateRequest may carry the full answer set in one call; answers
// recorded earlier through AnswerRequest are kept otherwise.
type RatingGenerateRequest struct {
	Answers       map[int]string `json:"answers"`
	CustomAnswers map[int]string `json:"customAnswers"`
}

type SelectRequest struct {
	Index int `json:"index"`
}

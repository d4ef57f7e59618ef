package api

import "verva-api/domain"

const requestBodyMaxSize = 64 * 1024 // 64 KiB

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type oauthRequest struct {
	Code string `json:"code"`
}

type authErrorResponse struct {
	Error string `json:"error"`
}

type createTaskRequest struct {
	Title    string          `json:"title"`
	Priority domain.Priority `json:"priority"`
	DueDate  string          `json:"dueDate"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type assistantRequest struct {
	Message string               `json:"message"`
	History []domain.ChatMessage `json:"history,omitempty"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

type analyticsResponse struct {
	Score     int                     `json:"score"`
	Total     int                     `json:"total"`
	Completed int                     `json:"completed"`
	Weekly    []domain.WeeklyPoint    `json:"weekly"`
	Breakdown []domain.BreakdownSlice `json:"breakdown"`
}

package response

type APIError struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type Deleted struct {
	Message string `json:"message"`
}

type Success struct {
	Success bool `json:"success"`
}

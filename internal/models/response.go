package models

type Response struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Error    string      `json:"error,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// RedirectResponse is an error the client resolves by navigating to another screen.
func RedirectResponse(err string, to string) Response {
	return Response{
		Success:  false,
		Error:    err,
		Redirect: to,
	}
}

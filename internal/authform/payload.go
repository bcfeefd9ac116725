package authform

// Request is the JSON body sent to the backend. Name and Role are nil in login mode so the keys
// are left out entirely rather than sent as empty strings.
type Request struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func (s State) Request() Request {
	req := Request{
		Email:    s.Email,
		Password: s.Password,
	}
	if !s.IsLogin() {
		name, role := s.Name, string(s.Role)
		req.Name = &name
		req.Role = &role
	}
	return req
}

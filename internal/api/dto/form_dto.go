package dto

// FormField describes one input of a form and its constraints.
type FormField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MinLength int    `json:"min_length,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
	Value     string `json:"value,omitempty"`
}

// FormDescriptor tells a client where and what to submit.
type FormDescriptor struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
}

// RegisterForm mirrors the registration rules.
func RegisterForm() FormDescriptor {
	return FormDescriptor{Action: "/register", Method: "POST", Fields: []FormField{
		{Name: "username", Type: "text", Required: true, MinLength: 3, MaxLength: 100},
		{Name: "email", Type: "email", Required: true},
		{Name: "password", Type: "password", Required: true, MinLength: 6},
	}}
}

// LoginForm mirrors the login rules.
func LoginForm() FormDescriptor {
	return FormDescriptor{Action: "/login", Method: "POST", Fields: []FormField{
		{Name: "email", Type: "email", Required: true},
		{Name: "password", Type: "password", Required: true},
	}}
}

// ComplaintForm mirrors the complaint rules, prefilled when editing.
func ComplaintForm(action, title, description string) FormDescriptor {
	return FormDescriptor{Action: action, Method: "POST", Fields: []FormField{
		{Name: "title", Type: "text", Required: true, MinLength: 5, MaxLength: 200, Value: title},
		{Name: "description", Type: "textarea", Required: true, MinLength: 10, Value: description},
	}}
}

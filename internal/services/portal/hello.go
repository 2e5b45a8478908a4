package portal

import "strings"

// HelloResult is the greeting returned by Hello
type HelloResult struct {
	Message string `json:"message"`
}

// Hello greets name, or Guest when it is empty
func (s *Service) Hello(name string) HelloResult {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	return HelloResult{Message: "Hello, " + name + "!"}
}

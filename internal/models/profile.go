package models

import "fmt"

// StudentProfile is the caller-supplied description of a student. The fields
// are free text; only Name and Interests are required, and only Interests
// drives retrieval query derivation.
type StudentProfile struct {
	Name       string `json:"name"`
	Age        string `json:"age,omitempty"`
	Grade      string `json:"grade,omitempty"`
	Interests  string `json:"interests"`
	Assessment string `json:"assessment,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Validate ensures the profile has the fields retrieval depends on.
func (p *StudentProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if p.Interests == "" {
		return fmt.Errorf("profile interests cannot be empty")
	}
	return nil
}

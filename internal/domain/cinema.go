package domain

// Cinema is the canonical theater entity. Address is always a single
// formatted display string regardless of how the upstream structured it,
// and Website always carries a URL scheme.
type Cinema struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
}

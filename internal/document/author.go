package document

// PersonName is a credited person's name.
type PersonName struct {
	Surname   string `json:"surname"`
	FirstName string `json:"first_name,omitempty"`
}

// String formats the name as "First Surname", or just the surname.
func (n PersonName) String() string {
	if n.FirstName != "" {
		return n.FirstName + " " + n.Surname
	}
	return n.Surname
}

// Affiliation is one institutional affiliation of an author.
type Affiliation struct {
	Institution string `json:"institution,omitempty"`
	Department  string `json:"department,omitempty"`
	Laboratory  string `json:"laboratory,omitempty"`
}

// IsEmpty reports whether all three fields are absent.
func (a Affiliation) IsEmpty() bool {
	return a.Institution == "" && a.Department == "" && a.Laboratory == ""
}

// Author represents a paper author whose name passed entity validation.
type Author struct {
	PersonName   PersonName    `json:"person_name"`
	Email        string        `json:"email,omitempty"`
	Affiliations []Affiliation `json:"affiliations"`
}

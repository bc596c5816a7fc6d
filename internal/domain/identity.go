package domain

type Preferences struct {
	SeatPreference string `json:"seatPreference"`
	MealPreference string `json:"mealPreference"`
}

type Identity struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	DateOfBirth string      `json:"dateOfBirth"`
	Preferences Preferences `json:"preferences"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegistrationForm is the flat form the register page collects; preferences are nested
// only in the backend payload.
type RegistrationForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	DateOfBirth     string `json:"dateOfBirth"`
	SeatPreference  string `json:"seatPreference"`
	MealPreference  string `json:"mealPreference"`
}

// Profile is a full or partial update of the editable identity fields. Zero fields are left
// off the wire so the backend only sees what changed.
type Profile struct {
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	DateOfBirth string       `json:"dateOfBirth,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// ProfileForm is what the profile page submits; unlike Profile every contact field is required.
type ProfileForm struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,phone"`
	DateOfBirth    string `json:"dateOfBirth"`
	SeatPreference string `json:"seatPreference"`
	MealPreference string `json:"mealPreference"`
}

func (f ProfileForm) Profile() Profile {
	p := Profile{Name: f.Name, Email: f.Email, Phone: f.Phone, DateOfBirth: f.DateOfBirth}
	if f.SeatPreference != "" || f.MealPreference != "" {
		p.Preferences = &Preferences{SeatPreference: f.SeatPreference, MealPreference: f.MealPreference}
	}
	return p
}

// AuthResult is what login and register return: a bearer credential and the identity.
type AuthResult struct {
	Token string    `json:"token"`
	User  *Identity `json:"user"`
}

// Principal is whoever is driving a request: a browser session with an optional credential
// and cached identity.
type Principal interface {
	ID() string
	Credential() string
	Identity() *Identity
}

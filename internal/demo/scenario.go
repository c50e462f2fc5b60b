// Package demo seeds a database with a ready-made account and chat history
// so Nelson can be explored without an API key or prior use.
package demo

import (
	"time"

	"github.com/zhubert/nelson/internal/settings"
)

// Account is the demo user's credentials.
type Account struct {
	Email    string
	Password string
}

// Exchange is one question and the answer it received.
type Exchange struct {
	Question string
	Answer   string
}

// ChatSetup describes a chat to pre-populate.
type ChatSetup struct {
	// Title overrides the title derived from the first question.
	Title string
	// Age is how long before the seed time the chat was last active.
	Age       time.Duration
	Exchanges []Exchange
}

// Scenario defines a complete demo data set.
type Scenario struct {
	Name        string
	Description string
	Account     Account
	// StartSignedIn leaves the demo user signed in after seeding. When
	// false the app opens on the sign-in screen.
	StartSignedIn bool
	Settings      *settings.UserSettings
	Chats         []ChatSetup
}

// DefaultAccount is used when a scenario names none.
var DefaultAccount = Account{Email: "demo@nelson.local", Password: "nelson-demo"}

// Validate checks that the scenario is valid.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Account.Email == "" {
		s.Account = DefaultAccount
	}
	for i, c := range s.Chats {
		if len(c.Exchanges) == 0 {
			return &ValidationError{Field: "Chats", Message: "chat " + c.Title + " has no exchanges"}
		}
		if c.Age < 0 {
			s.Chats[i].Age = 0
		}
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Ask builds an exchange.
func Ask(question, answer string) Exchange {
	return Exchange{Question: question, Answer: answer}
}

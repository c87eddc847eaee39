package validation

import (
	"fmt"
	"strings"

	"restaurant_reviews/internal/model"
)

func text(name, label string, required bool, rules ...Rule) Field {
	return Field{
		Name:            name,
		Kind:            Text,
		Required:        required,
		TypeMessage:     label + " must be a type of text",
		EmptyMessage:    label + " must not be empty",
		RequiredMessage: label + " is required",
		Rules:           rules,
	}
}

func maxLen(label string, n int) Rule {
	return Rule{Tag: fmt.Sprintf("max=%d", n), Message: fmt.Sprintf("%s must not be longer than %d characters", label, n)}
}

func minLen(label string, n int) Rule {
	return Rule{Tag: fmt.Sprintf("min=%d", n), Message: fmt.Sprintf("%s must be at least %d characters long", label, n)}
}

func validURL(label string) Rule {
	return Rule{Tag: "url", Message: label + " must be a valid URL"}
}

// Restaurant covers both create and update of restaurants.
var Restaurant = Schema{Fields: []Field{
	text("name", "Restaurant name", true, maxLen("Restaurant name", 255)),
	text("description", "Restaurant description", true,
		minLen("Restaurant description", 60), maxLen("Restaurant description", 500)),
	text("location", "Restaurant location", true, maxLen("Restaurant location", 255)),
	text("website", "Restaurant website", true,
		validURL("Restaurant website"), maxLen("Restaurant website", 255)),
	text("image_url", "Restaurant image URL", false,
		validURL("Restaurant image URL"), maxLen("Restaurant image URL", 255)),
}}

// Review covers both create and update of reviews. restaurant_id is only
// accepted on create.
var Review = Schema{Fields: []Field{
	{
		Name:            "restaurant_id",
		Kind:            Number,
		Required:        true,
		CreateOnly:      true,
		TypeMessage:     "Restaurant ID must be a type of number",
		EmptyMessage:    "Restaurant ID must not be empty",
		RequiredMessage: "Restaurant ID is required",
	},
	text("rating", "Review rating", true, Rule{Tag: "oneof=" + strings.Join(model.Ratings, " "), Message: "Invalid review rating"}),
	text("review", "Review body", true, minLen("Review body", 25), maxLen("Review body", 500)),
	text("name", "Review name", false, maxLen("Review name", 255)),
}}

// Signup validates new account registration.
var Signup = Schema{Fields: []Field{
	text("username", "Username", true,
		Rule{Tag: "alphanum", Message: "Username must only contain a-z, A-Z, and 0-9"},
		minLen("Username", 3), maxLen("Username", 255)),
	text("email", "Email", true,
		Rule{Tag: "email", Message: "Email must be a valid email address"}, maxLen("Email", 255)),
	text("password", "Password", true, minLen("Password", 8), maxLen("Password", 255)),
	{
		Name:            "confirm_password",
		Kind:            Text,
		Required:        true,
		TypeMessage:     "Passwords do not match",
		EmptyMessage:    "Passwords do not match",
		RequiredMessage: "Password confirmation is required",
		Equals:          "password",
		EqualsMessage:   "Passwords do not match",
	},
}}

// Login only checks presence, so credential probing gets no format hints.
var Login = Schema{Fields: []Field{
	text("email", "Email", true),
	text("password", "Password", true),
}}

package service

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// Shared field validators. User-facing messages are the product's Russian
// copy; internal errors stay English. Usernames allow any Unicode letters and
// digits, and length limits count characters, not bytes.
var (
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxNameLen     = 256
	maxSlugLen     = 50

	msgNameTooLong     = "Поле name не может быть больше 256 символов"
	msgSlugTooLong     = "Поле slug не может быть больше 50 символов"
	msgUsernameMe      = "username 'me' - не допустимо"
	msgBadCharacters   = "Недопустимые символы"
	msgDuplicateReview = "Можно оставить только один отзыв на произведение"
)

// validateUsername checks the identifier rules shared by signup, token
// exchange and user administration. rejectMe additionally bans the reserved
// "me" username (signup and admin creation, not token exchange).
func validateUsername(username string, rejectMe bool) ValidationError {
	if username == "" {
		return FieldError("username", "обязательное поле")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return FieldError("username", fmt.Sprintf("не может быть длиннее %d символов", maxUsernameLen))
	}
	if !usernameRe.MatchString(username) {
		return FieldError("username", msgBadCharacters)
	}
	if rejectMe && username == "me" {
		return FieldError("username", msgUsernameMe)
	}
	return nil
}

func validateEmail(email string) ValidationError {
	if email == "" {
		return FieldError("email", "обязательное поле")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return FieldError("email", fmt.Sprintf("не может быть длиннее %d символов", maxEmailLen))
	}
	if !emailRe.MatchString(email) {
		return FieldError("email", "некорректный адрес электронной почты")
	}
	return nil
}

func validateNameAndSlug(name, slug string) ValidationError {
	ve := ValidationError{}
	if name == "" {
		ve.Add("name", "обязательное поле")
	} else if utf8.RuneCountInString(name) > maxNameLen {
		ve.Add("name", msgNameTooLong)
	}
	if slug == "" {
		ve.Add("slug", "обязательное поле")
	} else {
		if utf8.RuneCountInString(slug) > maxSlugLen {
			ve.Add("slug", msgSlugTooLong)
		}
		if !slugRe.MatchString(slug) {
			ve.Add("slug", msgBadCharacters)
		}
	}
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// validateYear enforces the shared "not in the future" rule: the current
// calendar year is the upper bound.
func validateYear(year int, now time.Time) ValidationError {
	if year > now.Year() {
		return FieldError("year", "Год выпуска не может быть больше текущего")
	}
	return nil
}

func validateScore(score int) ValidationError {
	if score < 1 || score > 10 {
		return FieldError("score", "score must be between 1 and 10")
	}
	return nil
}

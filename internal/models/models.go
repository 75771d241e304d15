// Package models holds the records kept in the per-user documents and the
// request/response bodies of the HTTP API.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Reminder is one entry of a user's reminder list. Date is YYYY-MM-DD and Time is
// HH:MM; either may be empty.
type Reminder struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// UnmarshalJSON accepts the legacy form where a reminder was stored as a bare
// string, turning it into a reminder with that title and no due time. A null
// entry becomes an untitled reminder. Object fields of an unexpected type are
// coerced to text rather than failing the whole document.
func (r *Reminder) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		*r = Reminder{
			ID:    looseString(fields["id"]),
			Title: looseString(fields["title"]),
			Date:  looseString(fields["date"]),
			Time:  looseString(fields["time"]),
		}
		return nil
	}

	*r = Reminder{Title: looseString(trimmed)}

	return nil
}

type Assignment struct {
	ID          string `json:"id,omitempty"`
	Subject     string `json:"subject"`
	Title       string `json:"title,omitempty"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UnmarshalJSON reads an assignment object field by field, coercing fields of
// an unexpected type instead of failing the whole document.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*a = Assignment{
		ID:          looseString(fields["id"]),
		Subject:     looseString(fields["subject"]),
		Title:       looseString(fields["title"]),
		DueDate:     looseString(fields["due_date"]),
		Description: looseString(fields["description"]),
		Completed:   looseBool(fields["completed"]),
	}

	return nil
}

// Assignments decodes a user's assignment list, dropping entries that are not
// JSON objects.
type Assignments []Assignment

func (a *Assignments) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(Assignments, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var assignment Assignment
		if err := json.Unmarshal(item, &assignment); err != nil {
			return err
		}
		result = append(result, assignment)
	}
	*a = result

	return nil
}

// looseString returns a JSON string as is, null or a missing value as "", and
// any other value as its JSON text.
func looseString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}

	return string(trimmed)
}

// looseBool reads a boolean. Strings go through strconv.ParseBool and count as
// true when they do not parse but are not empty; numbers are true when non-zero.
func looseBool(raw json.RawMessage) bool {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
		return v != ""
	case float64:
		return v != 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}

	return false
}

type Note struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

const (
	NotificationTypeAssignment = "assignment"
	NotificationTypeReminder   = "reminder"
)

type Notification struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Link string `json:"link"`
}

// Bookmark is a reading position inside one of the user's uploaded files.
type Bookmark struct {
	Username string
	Filename string
	Position float64
}

type Dashboard struct {
	Username   string   `json:"username"`
	Reminders  []string `json:"reminders"`
	Files      []string `json:"files"`
	SpotifyURL string   `json:"spotify_url"`
	DailyQuote string   `json:"daily_quote"`
}

type InternalStatsResponse struct {
	Users       int `json:"users"`
	Reminders   int `json:"reminders"`
	Assignments int `json:"assignments"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Password string `json:"password" validate:"required,max=72"`
}

type AddReminderRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time  string `json:"time" validate:"omitempty,datetime=15:04"`
}

type DeleteReminderRequest struct {
	Title string `json:"title"`
}

type AddAssignmentRequest struct {
	Subject     string `json:"subject" validate:"required"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
}

type UpdateAssignmentRequest struct {
	Subject   string `json:"subject"`
	Completed bool   `json:"completed"`
}

type DeleteAssignmentRequest struct {
	Subject string `json:"subject"`
}

type SaveNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Index   *int   `json:"index,omitempty"`
}

type TimetableRequest struct {
	Timetable json.RawMessage `json:"timetable" validate:"required"`
}

type SubjectsRequest struct {
	Subjects []string `json:"subjects"`
}

type SubjectsResponse struct {
	Message  string   `json:"message"`
	Subjects []string `json:"subjects"`
}

type SpotifyRequest struct {
	SpotifyURL string `json:"spotify_url"`
}

type SpotifyResponse struct {
	SpotifyURL string `json:"spotify_url"`
}

type SaveBookmarkRequest struct {
	Filename string  `json:"filename" validate:"required"`
	Position float64 `json:"position" validate:"gte=0"`
}

type BookmarkResponse struct {
	Position float64 `json:"position"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Diner represents a single guest record from the reservations dataset.
// A diner carries every reservation they hold plus the email threads and
// free-form notes the front-of-house team has collected about them.
type Diner struct {
	Name               string        `json:"name"`
	DietaryInformation string        `json:"dietary_information"`
	SpecialOccasion    string        `json:"special_occasion"`
	OtherInfo          string        `json:"other_info"`
	Reservations       []Reservation `json:"reservations"`
	Emails             []Email       `json:"emails"`
}

// Reservation is a single booking. Dates are YYYY-MM-DD strings in the
// source data; party size appears as either a number or a string there,
// so it decodes through PartySize.
type Reservation struct {
	Date           string    `json:"date"`
	NumberOfPeople PartySize `json:"number_of_people"`
}

// Email is one guest inquiry. CombinedThread holds the full back-and-forth
// when present; Content is the fallback for single-message records.
type Email struct {
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	CombinedThread string `json:"combined_thread"`
}

// Thread returns the best available text for the email.
func (e Email) Thread() string {
	if e.CombinedThread != "" {
		return e.CombinedThread
	}
	return e.Content
}

// PartySize tolerates both JSON numbers and quoted numbers. Anything that
// cannot be parsed counts as zero guests rather than failing the load.
type PartySize int

// UnmarshalJSON implements json.Unmarshaler.
func (p *PartySize) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*p = 0
		return nil
	}
	*p = PartySize(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PartySize) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// Dataset is the top-level shape of the reservations JSON file.
type Dataset struct {
	Diners []Diner `json:"diners"`
}

// HasEmails reports whether the diner has at least one email inquiry.
func (d Diner) HasEmails() bool {
	return len(d.Emails) > 0
}

// FirstReservationDate returns the date of the diner's first reservation,
// or "Unknown" when the diner has none.
func (d Diner) FirstReservationDate() string {
	if len(d.Reservations) == 0 {
		return "Unknown"
	}
	if d.Reservations[0].Date == "" {
		return "Unknown"
	}
	return d.Reservations[0].Date
}

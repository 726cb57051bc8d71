package data

import (
	"sort"
	"strings"

	"huddleboard/internal/models"
)

// DefaultPreviewRows is how many rows a collapsed table shows.
const DefaultPreviewRows = 5

// Row is a single rendered reservation line.
type Row struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	PartySize      int    `json:"party_size"`
	Dietary        string `json:"dietary_information,omitempty"`
	Occasion       string `json:"special_occasion,omitempty"`
	AdditionalInfo string `json:"additional_information,omitempty"`
	VIP            bool   `json:"vip"`
}

// Table is a view model for one dashboard table. Columns lists the fields
// the view renders; Rows always carry the full data.
type Table struct {
	Title     string   `json:"title"`
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
	TotalRows int      `json:"total_rows"`
	Collapsed bool     `json:"collapsed"`
}

// Stats summarizes a bucket for the dashboard header.
type Stats struct {
	Bucket            string `json:"bucket"`
	TotalReservations int    `json:"total_reservations"`
	TotalGuests       int    `json:"total_guests"`
	DinersWithDietary int    `json:"diners_with_dietary"`
	SpecialOccasions  int    `json:"special_occasions"`
}

// isVIP flags guests whose notes mention VIP status, case-insensitively.
func isVIP(additionalInfo string) bool {
	return strings.Contains(strings.ToUpper(additionalInfo), "VIP")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MasterTable builds the all-reservations table: one row per reservation,
// sorted by date. Rows carrying nothing beyond the guest name are dropped.
func MasterTable(diners []models.Diner) Table {
	var rows []Row
	for _, diner := range diners {
		for _, res := range diner.Reservations {
			row := Row{
				Name:           diner.Name,
				Date:           res.Date,
				PartySize:      int(res.NumberOfPeople),
				Dietary:        diner.DietaryInformation,
				Occasion:       diner.SpecialOccasion,
				AdditionalInfo: diner.OtherInfo,
				VIP:            isVIP(diner.OtherInfo),
			}
			if blank(row.Date) && row.PartySize == 0 && blank(row.Dietary) &&
				blank(row.Occasion) && blank(row.AdditionalInfo) {
				continue
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})

	return Table{
		Title:     "All Reservations",
		Columns:   []string{"name", "date", "party_size", "dietary_information", "special_occasion", "additional_information"},
		Rows:      rows,
		TotalRows: len(rows),
	}
}

// DietaryTable filters the master table down to rows with dietary notes.
func DietaryTable(master Table) Table {
	var rows []Row
	for _, row := range master.Rows {
		if !blank(row.Dietary) {
			rows = append(rows, row)
		}
	}

	return Table{
		Title:     "Dietary Restrictions",
		Columns:   []string{"name", "date", "party_size", "dietary_information", "additional_information"},
		Rows:      rows,
		TotalRows: len(rows),
	}
}

// OccasionsTable filters the master table down to rows with a special
// occasion.
func OccasionsTable(master Table) Table {
	var rows []Row
	for _, row := range master.Rows {
		if !blank(row.Occasion) {
			rows = append(rows, row)
		}
	}

	return Table{
		Title:     "Special Occasions",
		Columns:   []string{"name", "date", "party_size", "special_occasion", "additional_information"},
		Rows:      rows,
		TotalRows: len(rows),
	}
}

// BucketStats computes the header statistics for a bucket from its master
// table.
func BucketStats(bucket string, master Table) Stats {
	stats := Stats{
		Bucket:            bucket,
		TotalReservations: len(master.Rows),
	}
	for _, row := range master.Rows {
		stats.TotalGuests += row.PartySize
		if !blank(row.Dietary) {
			stats.DinersWithDietary++
		}
		if !blank(row.Occasion) {
			stats.SpecialOccasions++
		}
	}
	return stats
}

// Preview returns the table limited to n rows with the collapsed flag set
// when rows were held back. n <= 0 uses the default.
func (t Table) Preview(n int) Table {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if len(t.Rows) <= n {
		return t
	}
	preview := t
	preview.Rows = t.Rows[:n]
	preview.Collapsed = true
	return preview
}

package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeDataset(t, `{
		"diners": [
			{
				"name": "Emily Chen",
				"reservations": [{"date": "2024-05-20", "number_of_people": 2}],
				"emails": [{"subject": "Table request", "combined_thread": "Could we get a corner table?"}]
			}
		]
	}`)

	dataset, err := Load(path)

	assert.NoError(t, err)
	assert.Len(t, dataset.Diners, 1)
	assert.Equal(t, "Emily Chen", dataset.Diners[0].Name)
	assert.Equal(t, 2, int(dataset.Diners[0].Reservations[0].NumberOfPeople))
	assert.True(t, dataset.Diners[0].HasEmails())
}

func TestLoadStringPartySize(t *testing.T) {
	path := writeDataset(t, `{
		"diners": [
			{
				"name": "David Martinez",
				"reservations": [{"date": "2024-06-15", "number_of_people": "4"}]
			}
		]
	}`)

	dataset, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, 4, int(dataset.Diners[0].Reservations[0].NumberOfPeople))
}

func TestLoadMissingFile(t *testing.T) {
	dataset, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
	assert.NotNil(t, dataset)
	assert.Empty(t, dataset.Diners)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeDataset(t, `{"diners": [`)

	dataset, err := Load(path)

	assert.Error(t, err)
	assert.NotNil(t, dataset)
	assert.Empty(t, dataset.Diners)
}

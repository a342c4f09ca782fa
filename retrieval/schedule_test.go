package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScheduleJSON = `{
  "schedule": {
    "conference": {
      "title": "PyConDE 2025",
      "days": [
        {
          "date": "2025-04-23",
          "rooms": {
            "Spectrum": [
              {"guid": "t-1", "title": "RAG in Production", "track": "MLOps", "start": "09:00", "persons": [{"public_name": "Ada"}]},
              {"code": "T2", "title": "Keynote", "track": "General", "start": "10:00"}
            ]
          }
        },
        {
          "date": "2025-04-24",
          "rooms": {
            "Helium": [
              {"id": 3, "title": "Vector Databases", "track": "Data", "start": "11:00"},
              {"title": "Lightning Talks", "track": "General", "start": "17:00"}
            ]
          }
        }
      ]
    }
  }
}`

func TestParseSchedule(t *testing.T) {
	schedule, err := ParseSchedule([]byte(sampleScheduleJSON))
	require.NoError(t, err)
	assert.Equal(t, "PyConDE 2025", schedule.Title)
	require.Len(t, schedule.Days, 2)
	assert.Equal(t, "2025-04-23", schedule.Days[0].Date)
}

func TestParseSchedule_BareForm(t *testing.T) {
	schedule, err := ParseSchedule([]byte(`{"days": [{"date": "2025-01-01", "rooms": {}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Conference", schedule.Title)
	assert.Len(t, schedule.Days, 1)
}

func TestParseSchedule_NoDays(t *testing.T) {
	schedule, err := ParseSchedule([]byte(`{"title": "something else"}`))
	require.NoError(t, err)
	assert.Empty(t, schedule.Days)

	_, err = ParseSchedule([]byte(`not json`))
	assert.Error(t, err)
}

func TestScheduleDocuments(t *testing.T) {
	schedule, err := ParseSchedule([]byte(sampleScheduleJSON))
	require.NoError(t, err)

	docs := schedule.Documents()
	require.Len(t, docs, 4)

	byID := map[string]Document{}
	for _, d := range docs {
		byID[d.ID] = d
	}
	// Id preference: guid, then code, then id, then composite fallback
	assert.Contains(t, byID, "t-1")
	assert.Contains(t, byID, "T2")
	assert.Contains(t, byID, "3")
	assert.Contains(t, byID, "2025-04-24_Helium_17:00")

	rag := byID["t-1"]
	assert.Equal(t, "Spectrum", rag.Metadata["room"])
	assert.Equal(t, "2025-04-23", rag.Metadata["date"])
	assert.Equal(t, "MLOps", rag.Metadata["track"])
	assert.Equal(t, "RAG in Production", rag.Metadata["title"])
	assert.Contains(t, rag.Text, "Title: RAG in Production")
	assert.Contains(t, rag.Text, "Speaker 1: Ada")
}

func TestScheduleOverview(t *testing.T) {
	schedule, err := ParseSchedule([]byte(sampleScheduleJSON))
	require.NoError(t, err)

	overview := schedule.Overview()
	assert.True(t, strings.HasPrefix(overview, "# PyConDE 2025\n"))
	assert.Equal(t, 2, strings.Count(overview, "## "))
	assert.Contains(t, overview, "- 09:00 | Spectrum | MLOps")
	assert.Contains(t, overview, "  RAG in Production")
	assert.Contains(t, overview, "- 17:00 | Helium | General")
}

func TestPersonDisplayName(t *testing.T) {
	assert.Equal(t, "Ada L.", Person{PublicName: "Ada L.", Name: "Ada"}.DisplayName())
	assert.Equal(t, "Ada", Person{Name: "Ada"}.DisplayName())
}

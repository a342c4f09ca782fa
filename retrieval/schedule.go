package retrieval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Field truncation limits applied when flattening talks into searchable text.
const (
	maxDescriptionChars = 4000
	maxBiographyChars   = 1500
	maxTitleMetaChars   = 200
)

// Person is a speaker attached to a talk.
type Person struct {
	PublicName string `json:"public_name"`
	Name       string `json:"name"`
	Biography  string `json:"biography"`
}

// DisplayName prefers the public name over the plain name.
func (p Person) DisplayName() string {
	if p.PublicName != "" {
		return p.PublicName
	}
	return p.Name
}

// Talk is one session of the conference program. GUID/Code/ID are `any`
// because exports mix string and numeric identifiers; absent optional fields
// default to empty strings.
type Talk struct {
	GUID        any      `json:"guid"`
	Code        any      `json:"code"`
	ID          any      `json:"id"`
	Title       string   `json:"title"`
	Track       string   `json:"track"`
	Type        string   `json:"type"`
	Room        string   `json:"room"`
	Date        string   `json:"date"`
	Start       string   `json:"start"`
	Duration    string   `json:"duration"`
	Abstract    string   `json:"abstract"`
	Description string   `json:"description"`
	Persons     []Person `json:"persons"`
}

// Day groups the talks of one conference day by room name.
type Day struct {
	Date  string            `json:"date"`
	Rooms map[string][]Talk `json:"rooms"`
}

// Schedule is the normalized conference program.
type Schedule struct {
	Title string
	Days  []Day
}

// scheduleJSON mirrors the accepted wire formats: an optional
// schedule/conference envelope around { days: [...] }, or the bare form.
type scheduleJSON struct {
	Schedule   *scheduleJSON   `json:"schedule"`
	Conference *conferenceJSON `json:"conference"`
	Days       []Day           `json:"days"`
}

type conferenceJSON struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// ParseSchedule decodes a schedule document, unwrapping the optional
// schedule/conference envelope. A document with zero days parses successfully
// into an empty schedule; the caller decides what that means.
func ParseSchedule(data []byte) (*Schedule, error) {
	var raw scheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid or unreadable JSON: %w", err)
	}
	node := &raw
	if raw.Schedule != nil {
		node = raw.Schedule
	}
	out := &Schedule{Title: "Conference"}
	if node.Conference != nil {
		if node.Conference.Title != "" {
			out.Title = node.Conference.Title
		}
		out.Days = node.Conference.Days
	}
	if len(out.Days) == 0 {
		out.Days = node.Days
	}
	return out, nil
}

// Document is one indexable talk: id, flattened searchable text, and the
// metadata surfaced in query results.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Documents flattens every talk into an indexable document, in day/room/talk
// order. Ids prefer guid, then code, then id; the fallback is a composite of
// date, room and start time.
func (s *Schedule) Documents() []Document {
	var docs []Document
	for _, day := range s.Days {
		for roomName, talks := range day.Rooms {
			for _, talk := range talks {
				docs = append(docs, Document{
					ID:   talkID(talk, day.Date, roomName),
					Text: talkText(talk),
					Metadata: map[string]string{
						"room":  roomName,
						"date":  day.Date,
						"start": talk.Start,
						"track": talk.Track,
						"title": truncate(talk.Title, maxTitleMetaChars),
					},
				})
			}
		}
	}
	return docs
}

// Overview renders the compact program listing: one header per day, rooms in
// lexicographic order, one "start | room | track" line plus title per talk.
func (s *Schedule) Overview() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	for _, day := range s.Days {
		fmt.Fprintf(&b, "## %s\n\n", day.Date)
		roomNames := make([]string, 0, len(day.Rooms))
		for name := range day.Rooms {
			roomNames = append(roomNames, name)
		}
		sort.Strings(roomNames)
		for _, roomName := range roomNames {
			for _, talk := range day.Rooms[roomName] {
				fmt.Fprintf(&b, "- %s | %s | %s\n", talk.Start, roomName, talk.Track)
				fmt.Fprintf(&b, "  %s\n", talk.Title)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func talkID(t Talk, dayDate, room string) string {
	for _, v := range []any{t.GUID, t.Code, t.ID} {
		if v == nil {
			continue
		}
		if s := identifierString(v); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%s_%s_%s", dayDate, room, t.Start)
}

func identifierString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64: // JSON numbers decode to float64
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%v", id)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// talkText flattens one talk into a single searchable text block.
func talkText(t Talk) string {
	parts := []string{
		"Title: " + t.Title,
		"Track: " + t.Track,
		"Type: " + t.Type,
		"Room: " + t.Room,
		"Date: " + t.Date,
		"Start: " + t.Start,
		"Duration: " + t.Duration,
		"Abstract: " + t.Abstract,
		"Description: " + truncate(t.Description, maxDescriptionChars),
	}
	for i, p := range t.Persons {
		parts = append(parts, fmt.Sprintf("Speaker %d: %s", i+1, p.DisplayName()))
		if p.Biography != "" {
			parts = append(parts, "  Biography: "+truncate(p.Biography, maxBiographyChars))
		}
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
